package main

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"borrow-system/internal/routes"
	"borrow-system/pkg/config"
	"borrow-system/pkg/customvalidator"
	"borrow-system/pkg/database/postgresql"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/eventbus"
	applogger "borrow-system/pkg/logger"
	appmiddleware "borrow-system/pkg/middleware"
	"borrow-system/pkg/service"
	"borrow-system/pkg/utils"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusInternalServerError, "Internal server error", err))
			}
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(appmiddleware.InjectLogger(logger))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("failed to register custom validations", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)
	bus := eventbus.New(logger)

	routes.InitRouter(e, dbConn, redisClient, jwtSvc, bus, logger, cfg)

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
