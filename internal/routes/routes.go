package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"doc-registry/internal/listeners"
	"doc-registry/internal/repositories"
	"doc-registry/internal/services"
	"doc-registry/pkg/config"
	"doc-registry/pkg/eventbus"
	"doc-registry/pkg/filestorage"
	"doc-registry/pkg/middleware"
)

// InitRouter собирает весь граф зависимостей: репозитории, сервисы,
// контроллеры и маршруты.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(cfg.JWT.SecretKey, logger)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.BasePath)
	if err != nil {
		return err
	}

	bus := eventbus.New(logger)

	// --- РЕПОЗИТОРИИ ---
	registryRepo := repositories.NewRegistryRepository(dbConn)
	registrationRepo := repositories.NewRegistrationRepository(dbConn)
	attachmentRepo := repositories.NewAttachmentRepository(dbConn)
	sequenceRepo := repositories.NewSequenceRepository()
	categoryRepo := repositories.NewCategoryRepository(dbConn)
	departmentRepo := repositories.NewDepartmentRepository(dbConn)
	documentTypeRepo := repositories.NewDocumentTypeRepository(dbConn)
	recipientRepo := repositories.NewRecipientRepository(dbConn)
	auditRepo := repositories.NewAuditRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Слушатель аудита подписывается до того, как появятся первые события.
	listeners.NewAuditListener(auditRepo, logger).Register(bus)

	// --- СЕРВИСЫ ---
	categoryService := services.NewCategoryService(categoryRepo, cacheRepo, cfg.Cache.DictionaryTTL, logger)
	sequenceService := services.NewSequenceService(registryRepo, sequenceRepo, logger)
	attachmentService := services.NewAttachmentService(
		dbConn, attachmentRepo, registrationRepo, categoryService, departmentRepo, fileStorage, bus, logger,
	)
	cascadeCoordinator := services.NewCascadeDeleteCoordinator(
		dbConn, registrationRepo, attachmentRepo, fileStorage, bus, logger,
	)
	registrationService := services.NewRegistrationService(
		dbConn, registrationRepo, registryRepo, documentTypeRepo, recipientRepo,
		attachmentRepo, sequenceRepo, sequenceService, attachmentService,
		categoryService, cascadeCoordinator, bus, logger,
	)
	registryService := services.NewRegistryService(registryRepo, logger)
	exportService := services.NewExportService(registryRepo, registrationRepo, attachmentRepo, logger)
	reconcileService := services.NewReconcileService(attachmentRepo, attachmentService, logger)

	// --- РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runRegistrationRouter(secureGroup, registrationService, exportService, reconcileService, logger)
	runAttachmentRouter(secureGroup, attachmentService, logger)
	runRegistryRouter(secureGroup, registryService, logger)

	e.Static("/static", cfg.Storage.BasePath)

	logger.Info("InitRouter: создание маршрутов завершено")
	return nil
}
