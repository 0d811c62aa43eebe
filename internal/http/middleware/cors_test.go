package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hiland-surveyors/survey-api/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/v1/sites", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_DevelopmentAllowsAllOrigins(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	h := CORS(cfg, "development", zap.NewNop())(http.HandlerFunc(okHandler))

	rec := preflight(h, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ExplicitOrigins(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://office.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	h := CORS(cfg, "production", zap.NewNop())(http.HandlerFunc(okHandler))

	assert.Equal(t, "https://office.example.com",
		preflight(h, "https://office.example.com").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight(h, "https://evil.example.com").Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ProductionWithoutOriginsDeniesAll(t *testing.T) {
	cfg := &config.CORSConfig{AllowedMethods: []string{"GET"}}
	h := CORS(cfg, "production", zap.NewNop())(http.HandlerFunc(okHandler))

	assert.Empty(t, preflight(h, "https://office.example.com").Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginPolicy(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		environment string
		want        corsPolicy
	}{
		{"listed", []string{"https://office.example.com"}, "production", allowListedOrigins},
		{"wildcard wins", []string{"https://office.example.com", "*"}, "production", allowAnyOrigin},
		{"development default", nil, "development", allowAnyOrigin},
		{"unset environment", nil, "", allowAnyOrigin},
		{"staging default", nil, "staging", allowNoOrigin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originPolicy(tt.origins, tt.environment))
		})
	}
}

func TestCORS_WildcardEchoesOrigin(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET"},
		AllowCredentials: true,
	}
	h := CORS(cfg, "production", zap.NewNop())(http.HandlerFunc(okHandler))

	rec := preflight(h, "https://field.example.com")
	assert.Equal(t, "https://field.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
