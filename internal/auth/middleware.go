package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"go.uber.org/zap"
)

// AdminLookup loads the admin a verified token names
type AdminLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
}

// Middleware authenticates bearer tokens
type Middleware struct {
	tokens *TokenService
	admins AdminLookup
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenService, admins AdminLookup, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		admins: admins,
		logger: logger,
	}
}

// Authenticate requires a valid bearer token naming an existing admin
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeAuthError(w, domain.CodeNoToken, "No token provided")
			return
		}

		adminID, err := m.tokens.Parse(token)
		if err != nil {
			m.logger.Debug("token validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			writeAuthError(w, domain.CodeInvalidToken, "Invalid or expired token")
			return
		}

		admin, err := m.admins.GetByID(r.Context(), adminID)
		if err != nil || admin == nil {
			m.logger.Warn("token names unknown admin",
				zap.String("admin_id", adminID.String()),
				zap.Error(err),
			)
			writeAuthError(w, domain.CodeInvalidToken, "Invalid or expired token")
			return
		}

		ctx := WithAdminContext(r.Context(), &AdminContext{
			AdminID: admin.ID,
			Name:    admin.Name,
			Email:   admin.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, code domain.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Success: false,
		Error:   domain.ErrorBody{Code: code, Message: message},
	})
}
