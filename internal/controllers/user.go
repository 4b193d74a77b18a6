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

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func (c *UserController) GetUsers(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())

	res, total, err := c.userService.GetUsers(ctx.Request().Context(), params)
	if err != nil {
		c.logger.Error("GetUsers: failed to list users", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Users fetched", http.StatusOK, total)
}

func (c *UserController) FindUser(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.userService.FindUser(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindUser: lookup failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "User fetched", http.StatusOK)
}

func (c *UserController) CreateUser(ctx echo.Context) error {
	var payload dto.CreateUserDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	id, err := c.userService.CreateUser(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateUser: create failed", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": id}, "User created", http.StatusCreated)
}

func (c *UserController) UpdateUser(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateUserDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.userService.UpdateUser(ctx.Request().Context(), id, payload); err != nil {
		c.logger.Error("UpdateUser: update failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "User updated", http.StatusOK)
}
