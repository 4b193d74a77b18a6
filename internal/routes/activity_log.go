package routes

import (
	"github.com/labstack/echo/v4"

	"borrow-system/internal/authz"
	"borrow-system/internal/controllers"
	"borrow-system/pkg/middleware"
)

func registerActivityLogRoutes(g *echo.Group, ctrl *controllers.ActivityLogController, perm *middleware.PermissionMiddleware) {
	g.GET("/activity-logs", ctrl.GetLogs)
	g.DELETE("/activity-logs", ctrl.Clear, perm.Require(authz.AuditClear))
}
