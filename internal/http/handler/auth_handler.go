package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register admin
// @Description Creates an admin account and returns a token for it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Admin details"
// @Success 201 {object} domain.Response{data=domain.AuthResponse}
// @Failure 400 {object} domain.ErrorResponse "Validation error or email already registered"
// @Failure 500 {object} domain.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "register admin")
		return
	}

	respondSuccess(w, http.StatusCreated, result)
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.Response{data=domain.AuthResponse}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse "Invalid credentials"
// @Failure 500 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "log in")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Logout godoc
// @Summary Log out
// @Description No-op; tokens are stateless and expire on their own.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Response
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, "Logged out successfully")
}

// Me godoc
// @Summary Get current admin
// @Description Returns the authenticated admin.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Response{data=domain.AdminDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, err := h.authService.Me(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get current admin")
		return
	}

	respondSuccess(w, http.StatusOK, admin)
}
