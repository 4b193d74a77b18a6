package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/services"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/utils"
)

type BorrowController struct {
	borrowService services.BorrowServiceInterface
	logger        *zap.Logger
}

func NewBorrowController(borrowService services.BorrowServiceInterface, logger *zap.Logger) *BorrowController {
	return &BorrowController{borrowService: borrowService, logger: logger}
}

func (c *BorrowController) GetBorrows(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())

	res, total, err := c.borrowService.GetBorrows(ctx.Request().Context(), params)
	if err != nil {
		c.logger.Error("GetBorrows: failed to list borrow requests", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Borrow requests fetched", http.StatusOK, total)
}

func (c *BorrowController) FindBorrow(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.borrowService.FindBorrow(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindBorrow: lookup failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Borrow request fetched", http.StatusOK)
}

func (c *BorrowController) SubmitRequest(ctx echo.Context) error {
	var payload dto.CreateBorrowRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	id, err := c.borrowService.SubmitRequest(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("SubmitRequest: failed to create borrow request", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": id}, "Borrow request submitted", http.StatusCreated)
}

func (c *BorrowController) ApproveRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.borrowService.ApproveRequest(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("ApproveRequest: approval failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Borrow request approved and equipment assigned", http.StatusOK)
}

func (c *BorrowController) RejectRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.borrowService.RejectRequest(ctx.Request().Context(), id); err != nil {
		c.logger.Error("RejectRequest: rejection failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Borrow request rejected", http.StatusOK)
}

func (c *BorrowController) PreDeliveryAssessment(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.PreDeliveryAssessmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.borrowService.PreDeliveryAssessment(ctx.Request().Context(), id, payload); err != nil {
		c.logger.Error("PreDeliveryAssessment: assessment failed", zap.Uint64("borrowId", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Pre-delivery assessment recorded", http.StatusOK)
}

func (c *BorrowController) ProcessReturn(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.borrowService.ProcessReturn(ctx.Request().Context(), id); err != nil {
		c.logger.Error("ProcessReturn: return failed", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Return registered, assessments pending", http.StatusOK)
}

func (c *BorrowController) PostReturnAssessment(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.PostReturnAssessmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Malformed request body", err))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.borrowService.PostReturnAssessment(ctx.Request().Context(), id, payload); err != nil {
		c.logger.Error("PostReturnAssessment: assessment failed", zap.Uint64("borrowId", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Post-return assessment recorded", http.StatusOK)
}

func parseIDParam(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Invalid id parameter", err)
	}
	return id, nil
}
