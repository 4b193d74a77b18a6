package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/services"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	tokens, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("Login: authentication failed", zap.String("email", payload.Email), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, tokens, "Logged in", http.StatusOK)
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var payload dto.RefreshDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	tokens, err := c.authService.Refresh(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("Refresh: token rotation failed", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, tokens, "Tokens refreshed", http.StatusOK)
}
