package controllers

import (
	"net/http"

	"doc-registry/internal/dto"
	"doc-registry/internal/services"
	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RegistryController struct {
	registryService services.RegistryServiceInterface
	logger          *zap.Logger
}

func NewRegistryController(registryService services.RegistryServiceInterface, logger *zap.Logger) *RegistryController {
	return &RegistryController{
		registryService: registryService,
		logger:          logger,
	}
}

func (c *RegistryController) CreateRegistry(ctx echo.Context) error {
	var payload dto.CreateRegistryDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "некорректное тело запроса", apperrors.ErrBadRequest, nil,
		), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, err.Error(), apperrors.ErrBadRequest, nil,
		), c.logger)
	}

	registry, err := c.registryService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, registry, "Журнал создан", http.StatusCreated)
}

func (c *RegistryController) GetRegistries(ctx echo.Context) error {
	registries, err := c.registryService.GetAll(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, registries, "Successfully", http.StatusOK)
}
