package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"borrow-system/internal/authz"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/utils"
)

type PermissionMiddleware struct {
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewPermissionMiddleware(gatekeeper *authz.Gatekeeper, logger *zap.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{gatekeeper: gatekeeper, logger: logger}
}

// Require rejects the request unless the actor's role holds the permission.
// Runs after Auth, so the actor is always present.
func (m *PermissionMiddleware) Require(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := utils.ActorFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err)
			}
			if !m.gatekeeper.Can(actor.Role, permission) {
				m.logger.Warn("permission denied",
					zap.Uint64("actorId", actor.ID),
					zap.String("role", actor.Role),
					zap.String("permission", permission),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}
