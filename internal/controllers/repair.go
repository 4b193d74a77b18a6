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

type RepairController struct {
	repairService services.RepairServiceInterface
	logger        *zap.Logger
}

func NewRepairController(repairService services.RepairServiceInterface, logger *zap.Logger) *RepairController {
	return &RepairController{repairService: repairService, logger: logger}
}

func (c *RepairController) GetRepairs(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())

	res, total, err := c.repairService.GetRepairs(ctx.Request().Context(), params)
	if err != nil {
		c.logger.Error("GetRepairs: failed to list repair requests", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Repair requests fetched", http.StatusOK, total)
}

func (c *RepairController) FindRepair(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.repairService.FindRepair(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindRepair: lookup failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Repair request fetched", http.StatusOK)
}

func (c *RepairController) CreateRepairRequest(ctx echo.Context) error {
	var payload dto.CreateRepairRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	id, err := c.repairService.CreateRepairRequest(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateRepairRequest: create failed", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": id}, "Repair request submitted", http.StatusCreated)
}

func (c *RepairController) ApproveRepair(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.repairService.ApproveRepair(ctx.Request().Context(), id); err != nil {
		c.logger.Error("ApproveRepair: approval failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Repair request approved", http.StatusOK)
}

func (c *RepairController) RejectRepair(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.repairService.RejectRepair(ctx.Request().Context(), id); err != nil {
		c.logger.Error("RejectRepair: rejection failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Repair request rejected", http.StatusOK)
}

func (c *RepairController) CompleteRepair(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.CompleteRepairDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.repairService.CompleteRepair(ctx.Request().Context(), id, payload); err != nil {
		c.logger.Error("CompleteRepair: completion failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Repair completed", http.StatusOK)
}
