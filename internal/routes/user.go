package routes

import (
	"github.com/labstack/echo/v4"

	"borrow-system/internal/authz"
	"borrow-system/internal/controllers"
	"borrow-system/pkg/middleware"
)

func registerUserRoutes(g *echo.Group, ctrl *controllers.UserController, perm *middleware.PermissionMiddleware) {
	g.GET("/users", ctrl.GetUsers, perm.Require(authz.UsersManage))
	g.GET("/users/:id", ctrl.FindUser, perm.Require(authz.UsersManage))
	g.POST("/users", ctrl.CreateUser, perm.Require(authz.UsersManage))
	g.PUT("/users/:id", ctrl.UpdateUser, perm.Require(authz.UsersManage))
}
