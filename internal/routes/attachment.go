package routes

import (
	"doc-registry/internal/controllers"
	"doc-registry/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runAttachmentRouter(
	secureGroup *echo.Group,
	attachmentService services.AttachmentServiceInterface,
	logger *zap.Logger,
) {
	attachmentCtrl := controllers.NewAttachmentController(attachmentService, logger)
	{
		secureGroup.POST("/attachments", attachmentCtrl.Upload)
		secureGroup.GET("/attachments/unassigned", attachmentCtrl.ListUnassigned)
		secureGroup.POST("/attachments/associate", attachmentCtrl.Associate)
		secureGroup.PUT("/attachments/:id", attachmentCtrl.UpdateMetadata)
		secureGroup.DELETE("/attachments/:id", attachmentCtrl.Delete)
	}
}
