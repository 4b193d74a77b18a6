package service

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "borrow-system/pkg/errors"
)

type JwtCustomClaim struct {
	UserID         uint64 `json:"userId"`
	UserName       string `json:"userName"`
	Role           string `json:"role"`
	IsRefreshToken bool   `json:"isRefreshToken"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateTokens(userID uint64, userName, role string) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type jwtService struct {
	secretKey       string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	logger          *zap.Logger
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		secretKey:       secretKey,
		accessTokenExp:  accessTokenExp,
		refreshTokenExp: refreshTokenExp,
		logger:          logger,
	}
}

func (s *jwtService) GenerateTokens(userID uint64, userName, role string) (string, string, error) {
	now := time.Now()

	accessTokenClaims := &JwtCustomClaim{
		UserID:         userID,
		UserName:       userName,
		Role:           role,
		IsRefreshToken: false,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	refreshTokenClaims := &JwtCustomClaim{
		UserID:         userID,
		UserName:       userName,
		Role:           role,
		IsRefreshToken: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS512, accessTokenClaims).SignedString([]byte(s.secretKey))
	if err != nil {
		return "", "", err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS512, refreshTokenClaims).SignedString([]byte(s.secretKey))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.accessTokenExp
}

func (s *jwtService) GetRefreshTokenTTL() time.Duration {
	return s.refreshTokenExp
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(s.secretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		s.logger.Warn("token parsing or signature check failed", zap.Error(err))
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(time.Now()) {
		return nil, apperrors.ErrTokenNotYetValid
	}

	return claims, nil
}
