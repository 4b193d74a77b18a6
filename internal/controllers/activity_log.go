package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"borrow-system/internal/services"
	"borrow-system/pkg/utils"
)

type ActivityLogController struct {
	logService services.ActivityLogServiceInterface
	logger     *zap.Logger
}

func NewActivityLogController(logService services.ActivityLogServiceInterface, logger *zap.Logger) *ActivityLogController {
	return &ActivityLogController{logService: logService, logger: logger}
}

func (c *ActivityLogController) GetLogs(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())

	res, total, err := c.logService.GetLogs(ctx.Request().Context(), params)
	if err != nil {
		c.logger.Error("GetLogs: failed to list activity log", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, res, "Activity log fetched", http.StatusOK, total)
}

func (c *ActivityLogController) Clear(ctx echo.Context) error {
	deleted, err := c.logService.Clear(ctx.Request().Context())
	if err != nil {
		c.logger.Error("Clear: failed to clear activity log", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]int64{"deleted": deleted}, "Activity log cleared", http.StatusOK)
}
