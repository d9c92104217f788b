package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"volops/core/cache"
	"volops/core/constants"
	"volops/core/errors"
	"volops/core/logger"
	"volops/core/utils"
	"volops/modules/auth/dto"
	"volops/modules/auth/entity"
	"volops/modules/auth/repository"
)

// AuthService handles account and session logic
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.TokenResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError)
	Logout(ctx context.Context, token string, claims *utils.TokenClaims) *errors.AppError
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, *errors.AppError)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError)
}

// NewAuthService creates a new auth service
func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache) AuthServiceInterface {
	return &AuthService{repo: repo, cache: cache}
}

// SignUp creates an account and issues a token for it
func (s *AuthService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.TokenResponse, *errors.AppError) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("AuthService:SignUp:HashPassword", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create account", err)
	}

	user := &entity.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		IsOrganizer:  req.IsOrganizer,
	}
	if req.Organization != "" {
		user.Organization = &req.Organization
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Email is already registered", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create account", err)
	}

	return s.issueToken(created)
}

// Login verifies the password and issues a token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up account", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	return s.issueToken(user)
}

// Logout blacklists the presented token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, token string, claims *utils.TokenClaims) *errors.AppError {
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:AddToTokenBlacklist", err)
		return errors.NewAppError(errors.ErrServiceUnavailable, "Failed to revoke token", err)
	}
	return nil
}

// GetProfile returns the caller's profile
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError) {
	user, appErr := s.GetUserByID(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	resp := dto.ToProfileResponse(user)
	return &resp, nil
}

// UpdateProfile updates name and organization
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, *errors.AppError) {
	user, appErr := s.GetUserByID(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Organization != "" {
		user.Organization = &req.Organization
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update profile", err)
	}

	resp := dto.ToProfileResponse(user)
	return &resp, nil
}

// GetUserByID is used by other modules to resolve the caller's account
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return user, nil
}

func (s *AuthService) issueToken(user *entity.User) (*dto.TokenResponse, *errors.AppError) {
	token, err := utils.GenerateToken(user.ID, user.Email, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:IssueToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}

	return &dto.TokenResponse{
		Token: token,
		User:  dto.ToProfileResponse(user),
	}, nil
}
