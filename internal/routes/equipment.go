package routes

import (
	"github.com/labstack/echo/v4"

	"borrow-system/internal/authz"
	"borrow-system/internal/controllers"
	"borrow-system/pkg/middleware"
)

func registerEquipmentRoutes(g *echo.Group, ctrl *controllers.EquipmentController, perm *middleware.PermissionMiddleware) {
	g.GET("/equipment", ctrl.GetEquipment)
	g.GET("/equipment/availability", ctrl.GetAvailability)
	g.GET("/equipment/:id", ctrl.FindEquipment)
	g.POST("/equipment", ctrl.CreateEquipment, perm.Require(authz.EquipmentWrite))
	g.PUT("/equipment/:id", ctrl.UpdateEquipment, perm.Require(authz.EquipmentWrite))
	g.DELETE("/equipment/:id", ctrl.DeleteEquipment, perm.Require(authz.EquipmentWrite))
}
