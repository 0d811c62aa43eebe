package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hiland-surveyors/survey-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// defaultJWTSecret is only acceptable outside staging and production.
const defaultJWTSecret = "change-me-in-production"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	AutoMigrate     bool
}

// AuthConfig holds admin token settings.
type AuthConfig struct {
	JWTSecret string
	// JWTExpire accepts Go durations ("24h") and day counts ("7d")
	JWTExpire  string
	BcryptCost int
}

// StorageConfig selects where monthly report archives are written.
type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type SecretsConfig struct {
	// Source is "environment", "vault" or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute applies per IP to unauthenticated routes
	RequestsPerMinute int
	// RequestsPerMinuteAuth applies per admin to authenticated routes
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// JobsConfig holds background job schedules. Expressions use the six-field
// cron format with seconds.
type JobsConfig struct {
	Enabled            bool
	ReminderCron       string
	ReminderWindowDays int
	ArchiveEnabled     bool
	ArchiveCron        string
	Timeout            int // seconds
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TimeoutDuration returns the per-run job timeout.
func (j *JobsConfig) TimeoutDuration() time.Duration {
	return time.Duration(j.Timeout) * time.Second
}

// TokenTTL parses JWTExpire. Unparseable values fall back to 24 hours.
func (a *AuthConfig) TokenTTL() time.Duration {
	ttl, err := ParseExpiry(a.JWTExpire)
	if err != nil {
		return 24 * time.Hour
	}
	return ttl
}

// ParseExpiry parses a token lifetime such as "24h", "90m" or "7d".
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty expiry")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid expiry %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive: %q", s)
	}
	return d, nil
}

// Validate rejects configurations that must not reach staging or production.
func (c *Config) Validate() error {
	if c.App.Environment == "staging" || c.App.Environment == "production" {
		if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("auth.jwtSecret must be set in %s", c.App.Environment)
		}
	}
	if _, err := ParseExpiry(c.Auth.JWTExpire); err != nil {
		return fmt.Errorf("auth.jwtExpire: %w", err)
	}
	switch c.Storage.Mode {
	case "local", "azure", "cloud":
	default:
		return fmt.Errorf("unsupported storage mode: %s", c.Storage.Mode)
	}
	return nil
}

// Load loads configuration from file and environment variables without
// consulting Key Vault. Use LoadWithSecrets for full secret resolution.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Conventional names used by existing deployments
	if secret := v.GetString("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if expire := v.GetString("JWT_EXPIRE"); expire != "" {
		cfg.Auth.JWTExpire = expire
	}
	if port := v.GetInt("PORT"); port != 0 {
		cfg.App.Port = port
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and, when USE_AZURE_KEY_VAULT=true in
// staging or production, resolves credentials from Azure Key Vault.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault || !isValidEnv {
		logger.Info("using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
			zap.Bool("use_key_vault", useKeyVault),
		)
		return cfg, cfg.Validate()
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	resolved := provider.Resolve(ctx, secretBindings(cfg))
	logger.Info("secrets loaded from Azure Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
		zap.Strings("resolved", resolved),
	)

	return cfg, cfg.Validate()
}

func secretBindings(cfg *Config) []secrets.Binding {
	return []secrets.Binding{
		{VaultName: "POSTGRES-SURVEY-HOST", EnvName: "DATABASE_HOST", Target: &cfg.Database.Host},
		{VaultName: "POSTGRES-SURVEY-USER", EnvName: "DATABASE_USER", Target: &cfg.Database.User},
		{VaultName: "POSTGRES-SURVEY-PASSWORD", EnvName: "DATABASE_PASSWORD", Target: &cfg.Database.Password},
		{VaultName: "survey-jwt-secret", EnvName: "JWT_SECRET", Target: &cfg.Auth.JWTSecret},
		{VaultName: "report-storage-connection-string", EnvName: "STORAGE_CLOUDCONNECTIONSTRING", Target: &cfg.Storage.CloudConnectionString},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Hi-Land Surveyors API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 5000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "survey")
	v.SetDefault("database.user", "survey_user")
	v.SetDefault("database.password", "survey_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", false)

	v.SetDefault("auth.jwtSecret", defaultJWTSecret)
	v.SetDefault("auth.jwtExpire", "24h")
	v.SetDefault("auth.bcryptCost", 10)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "survey-reports")

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 60)
	v.SetDefault("server.requestTimeout", 60)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Content-Disposition", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 300)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.reminderCron", "0 0 7 * * *")
	v.SetDefault("jobs.reminderWindowDays", 30)
	v.SetDefault("jobs.archiveEnabled", false)
	v.SetDefault("jobs.archiveCron", "0 30 2 1 * *")
	v.SetDefault("jobs.timeout", 300)
}
