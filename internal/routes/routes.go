package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"borrow-system/internal/authz"
	"borrow-system/internal/controllers"
	"borrow-system/internal/listeners"
	"borrow-system/internal/repositories"
	"borrow-system/internal/services"
	"borrow-system/pkg/config"
	"borrow-system/pkg/eventbus"
	"borrow-system/pkg/middleware"
	"borrow-system/pkg/service"
)

// InitRouter wires repositories, services and controllers, and mounts every
// route group under /api. Auth routes are public; everything else requires a
// valid access token.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	logger *zap.Logger,
	cfg *config.Config,
) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	permMW := middleware.NewPermissionMiddleware(authz.NewGatekeeper(), logger)

	// repositories
	userRepo := repositories.NewUserRepository(dbConn, logger)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	borrowRepo := repositories.NewBorrowRepository(dbConn)
	assessmentRepo := repositories.NewAssessmentRepository(dbConn)
	repairRepo := repositories.NewRepairRepository(dbConn)
	logRepo := repositories.NewActivityLogRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// services
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	userService := services.NewUserService(dbConn, userRepo, logRepo, logger)
	equipmentService := services.NewEquipmentService(dbConn, equipmentRepo, logRepo, cacheRepo, logger, cfg.Borrow)
	borrowService := services.NewBorrowService(dbConn, borrowRepo, equipmentRepo, assessmentRepo, repairRepo, logRepo, cacheRepo, bus, logger, cfg.Borrow)
	repairService := services.NewRepairService(dbConn, repairRepo, equipmentRepo, logRepo, cacheRepo, bus, logger)
	logService := services.NewActivityLogService(dbConn, logRepo, logger)
	notificationService := services.NewNotificationService(logger)

	listeners.NewNotificationListener(notificationService, logger).Subscribe(bus)

	// controllers
	authCtrl := controllers.NewAuthController(authService, logger)
	userCtrl := controllers.NewUserController(userService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	borrowCtrl := controllers.NewBorrowController(borrowService, logger)
	repairCtrl := controllers.NewRepairController(repairService, logger)
	logCtrl := controllers.NewActivityLogController(logService, logger)

	registerAuthRoutes(api, authCtrl)

	secured := api.Group("", authMW.Auth)
	registerUserRoutes(secured, userCtrl, permMW)
	registerEquipmentRoutes(secured, equipmentCtrl, permMW)
	registerBorrowRoutes(secured, borrowCtrl, permMW)
	registerRepairRoutes(secured, repairCtrl, permMW)
	registerActivityLogRoutes(secured, logCtrl, permMW)
}
