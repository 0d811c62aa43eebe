package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAdmins map[uuid.UUID]*domain.Admin

func (s stubAdmins) GetByID(_ context.Context, id uuid.UUID) (*domain.Admin, error) {
	if a, ok := s[id]; ok {
		return a, nil
	}
	return nil, errors.New("not found")
}

func setupMiddleware(t *testing.T) (*auth.Middleware, *auth.TokenService, *domain.Admin) {
	t.Helper()
	admin := &domain.Admin{Name: "Asha", Email: "asha@example.com"}
	admin.ID = uuid.New()

	tokens := auth.NewTokenService("test-secret", time.Hour)
	mw := auth.NewMiddleware(tokens, stubAdmins{admin.ID: admin}, zap.NewNop())
	return mw, tokens, admin
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestMiddleware_Authenticate(t *testing.T) {
	mw, tokens, admin := setupMiddleware(t)

	var captured *auth.AdminContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Issue(admin.ID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, admin.ID, captured.AdminID)
		assert.Equal(t, "asha@example.com", captured.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, domain.CodeNoToken, resp.Error.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, domain.CodeNoToken, decodeError(t, w).Error.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, domain.CodeInvalidToken, decodeError(t, w).Error.Code)
	})

	t.Run("unknown admin", func(t *testing.T) {
		token, err := tokens.Issue(uuid.New())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, domain.CodeInvalidToken, decodeError(t, w).Error.Code)
	})
}

func TestAdminIDFromContext(t *testing.T) {
	_, ok := auth.AdminIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = auth.AdminIDFromContext(auth.WithAdminID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := auth.AdminIDFromContext(auth.WithAdminID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
