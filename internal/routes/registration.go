package routes

import (
	"doc-registry/internal/controllers"
	"doc-registry/internal/services"
	"doc-registry/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runRegistrationRouter(
	secureGroup *echo.Group,
	registrationService services.RegistrationServiceInterface,
	exportService services.ExportServiceInterface,
	reconcileService services.ReconcileServiceInterface,
	logger *zap.Logger,
) {
	registrationCtrl := controllers.NewRegistrationController(registrationService, exportService, reconcileService, logger)
	{
		secureGroup.GET("/registrations", registrationCtrl.GetRegistrations)
		secureGroup.POST("/registrations", registrationCtrl.CreateRegistration)
		secureGroup.GET("/registrations/:id", registrationCtrl.FindRegistration)
		secureGroup.PUT("/registrations/:id", registrationCtrl.UpdateRegistration)
		// Каскадное удаление необратимо, поэтому требует отдельного права.
		secureGroup.DELETE("/registrations/:id", registrationCtrl.DeleteRegistration,
			middleware.RequirePermission("registrations:delete", logger))
		secureGroup.GET("/registrations/export", registrationCtrl.ExportRegistryBook)
		secureGroup.POST("/registrations/reconcile", registrationCtrl.ReconcileDiskNames)
	}
}
