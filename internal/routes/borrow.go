package routes

import (
	"github.com/labstack/echo/v4"

	"borrow-system/internal/authz"
	"borrow-system/internal/controllers"
	"borrow-system/pkg/middleware"
)

func registerBorrowRoutes(g *echo.Group, ctrl *controllers.BorrowController, perm *middleware.PermissionMiddleware) {
	g.GET("/borrows", ctrl.GetBorrows)
	g.GET("/borrows/:id", ctrl.FindBorrow)
	g.POST("/borrows", ctrl.SubmitRequest)
	g.POST("/borrows/:id/approve", ctrl.ApproveRequest, perm.Require(authz.BorrowApprove))
	g.POST("/borrows/:id/reject", ctrl.RejectRequest, perm.Require(authz.BorrowApprove))
	g.POST("/borrows/:id/delivery-assessment", ctrl.PreDeliveryAssessment, perm.Require(authz.BorrowAssess))
	g.POST("/borrows/:id/return", ctrl.ProcessReturn, perm.Require(authz.BorrowReturn))
	g.POST("/borrows/:id/return-assessment", ctrl.PostReturnAssessment, perm.Require(authz.BorrowAssess))
}
