package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/config"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestLogging_SetsRequestIDAndLogger(t *testing.T) {
	var sawLogger bool
	h := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = logger.FromContext(r.Context(), nil) != nil
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/clients", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.True(t, sawLogger)

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestTagAdmin_RecordsAdmin(t *testing.T) {
	adminID := uuid.New()
	var entry *requestLog

	inner := TagAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry, _ = r.Context().Value(requestLogKey{}).(*requestLog)
	}))
	withAdmin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner.ServeHTTP(w, r.WithContext(auth.WithAdminID(r.Context(), adminID)))
	})

	Logging(zap.NewNop())(withAdmin).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, entry)
	assert.Equal(t, adminID.String(), entry.adminID)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, domain.CodeInternal, body.Error.Code)
}

func TestRateLimiter_PerAdmin(t *testing.T) {
	cfg := &config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     1,
		RequestsPerMinuteAuth: 2,
		WhitelistPaths:        []string{"/health/*"},
	}
	rl := NewRateLimiter(cfg, zap.NewNop())
	h := rl.Limit(http.HandlerFunc(okHandler))

	send := func(adminID uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/sites", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(auth.WithAdminID(req.Context(), adminID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first, second := uuid.New(), uuid.New()
	assert.Equal(t, http.StatusOK, send(first).Code)
	assert.Equal(t, http.StatusOK, send(first).Code)

	limited := send(first)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(limited.Body).Decode(&body))
	assert.Equal(t, domain.CodeTooManyRequests, body.Error.Code)

	// Another admin behind the same IP has its own budget
	assert.Equal(t, http.StatusOK, send(second).Code)
}

func TestRateLimiter_WhitelistAndDisabled(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, RequestsPerMinuteAuth: 1, WhitelistPaths: []string{"/health/*"}}
	h := NewRateLimiter(cfg, zap.NewNop()).LimitByIP(http.HandlerFunc(okHandler))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	off := NewRateLimiter(&config.RateLimitConfig{Enabled: false}, zap.NewNop()).LimitByIP(http.HandlerFunc(okHandler))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
	}
	rec := httptest.NewRecorder()
	SecurityHeaders(cfg)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}
