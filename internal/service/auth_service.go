package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/mapper"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService registers and signs in admins
type AuthService struct {
	adminRepo  *repository.AdminRepository
	tokens     *auth.TokenService
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	adminRepo *repository.AdminRepository,
	tokens *auth.TokenService,
	bcryptCost int,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates an admin account and signs it in
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin registered", zap.String("adminID", admin.ID.String()))
	return s.signIn(admin)
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.signIn(admin)
}

// Me returns the authenticated admin
func (s *AuthService) Me(ctx context.Context) (*domain.AdminDTO, error) {
	adminID, ok := auth.AdminIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	dto := mapper.ToAdminDTO(admin)
	return &dto, nil
}

func (s *AuthService) signIn(admin *domain.Admin) (*domain.AuthResponse, error) {
	token, err := s.tokens.Issue(admin.ID)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{Token: token, User: mapper.ToAdminDTO(admin)}, nil
}
