package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/repositories"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/service"
	"borrow-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, data dto.RefreshDTO) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, data.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != "active" {
		s.logger.Warn("login attempt for inactive account", zap.Uint64("userId", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.Password, data.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.FullName, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.Uint64("userId", user.ID))
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, data dto.RefreshDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(data.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	// Re-read the account so a deactivated user cannot keep rotating tokens.
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.Status != "active" {
		return nil, apperrors.ErrUnauthorized
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.FullName, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
