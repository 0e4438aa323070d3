package routes

import (
	"doc-registry/internal/controllers"
	"doc-registry/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runRegistryRouter(
	secureGroup *echo.Group,
	registryService services.RegistryServiceInterface,
	logger *zap.Logger,
) {
	registryCtrl := controllers.NewRegistryController(registryService, logger)
	{
		secureGroup.GET("/registries", registryCtrl.GetRegistries)
		secureGroup.POST("/registries", registryCtrl.CreateRegistry)
	}
}
