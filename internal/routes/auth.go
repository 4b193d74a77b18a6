package routes

import (
	"github.com/labstack/echo/v4"

	"borrow-system/internal/controllers"
)

func registerAuthRoutes(g *echo.Group, ctrl *controllers.AuthController) {
	g.POST("/auth/login", ctrl.Login)
	g.POST("/auth/refresh", ctrl.Refresh)
}
