package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InjectLogger makes the request logger reachable from handlers.
func InjectLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("logger", logger)
			return next(c)
		}
	}
}
