package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/service"
	"borrow-system/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth resolves the caller's identity from the Bearer token and threads it
// into the request context as the explicit actor of every operation.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("empty Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("malformed Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("refresh token used for access")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess)
		}

		actor := utils.Actor{ID: claims.UserID, Name: claims.UserName, Role: claims.Role}
		c.SetRequest(c.Request().WithContext(utils.CtxWithActor(c.Request().Context(), actor)))

		return next(c)
	}
}
