package routes

import (
	"github.com/labstack/echo/v4"

	"borrow-system/internal/authz"
	"borrow-system/internal/controllers"
	"borrow-system/pkg/middleware"
)

func registerRepairRoutes(g *echo.Group, ctrl *controllers.RepairController, perm *middleware.PermissionMiddleware) {
	g.GET("/repairs", ctrl.GetRepairs)
	g.GET("/repairs/:id", ctrl.FindRepair)
	g.POST("/repairs", ctrl.CreateRepairRequest, perm.Require(authz.RepairManage))
	g.POST("/repairs/:id/approve", ctrl.ApproveRepair, perm.Require(authz.RepairManage))
	g.POST("/repairs/:id/reject", ctrl.RejectRepair, perm.Require(authz.RepairManage))
	g.POST("/repairs/:id/complete", ctrl.CompleteRepair, perm.Require(authz.RepairManage))
}
