package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"24h", 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"", 0, true},
		{"0d", 0, true},
		{"-1h", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExpiry(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthConfig_TokenTTLFallsBack(t *testing.T) {
	cfg := AuthConfig{JWTExpire: "garbage"}
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "24h", cfg.Auth.JWTExpire)
	assert.Equal(t, 30, cfg.Jobs.ReminderWindowDays)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentAliases(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "alias-secret")
	t.Setenv("JWT_EXPIRE", "7d")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "alias-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL())
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Environment: "production"},
		Auth:    AuthConfig{JWTSecret: defaultJWTSecret, JWTExpire: "24h"},
		Storage: StorageConfig{Mode: "local"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Mode = "ftp"
	assert.Error(t, cfg.Validate())
}
