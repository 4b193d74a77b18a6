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

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(equipmentService services.EquipmentServiceInterface, logger *zap.Logger) *EquipmentController {
	return &EquipmentController{equipmentService: equipmentService, logger: logger}
}

func (c *EquipmentController) GetEquipment(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())

	res, total, err := c.equipmentService.GetEquipment(ctx.Request().Context(), params)
	if err != nil {
		c.logger.Error("GetEquipment: failed to list equipment", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Equipment list fetched", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindEquipment: lookup failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Equipment fetched", http.StatusOK)
}

func (c *EquipmentController) GetAvailability(ctx echo.Context) error {
	equipmentType := ctx.QueryParam("type")
	if equipmentType == "" {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Query parameter 'type' is required", nil))
	}

	res, err := c.equipmentService.GetAvailability(ctx.Request().Context(), equipmentType)
	if err != nil {
		c.logger.Error("GetAvailability: count failed", zap.String("type", equipmentType), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Availability fetched", http.StatusOK)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var payload dto.CreateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	id, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateEquipment: create failed", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": id}, "Equipment created", http.StatusCreated)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, payload); err != nil {
		c.logger.Error("UpdateEquipment: update failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Equipment updated", http.StatusOK)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.equipmentService.SoftDeleteEquipment(ctx.Request().Context(), id); err != nil {
		c.logger.Error("DeleteEquipment: delete failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Equipment deleted", http.StatusOK)
}
