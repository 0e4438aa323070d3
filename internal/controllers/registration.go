package controllers

import (
	"net/http"
	"strconv"

	"doc-registry/internal/dto"
	"doc-registry/internal/services"
	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RegistrationController struct {
	registrationService services.RegistrationServiceInterface
	exportService       services.ExportServiceInterface
	reconcileService    services.ReconcileServiceInterface
	logger              *zap.Logger
}

func NewRegistrationController(
	registrationService services.RegistrationServiceInterface,
	exportService services.ExportServiceInterface,
	reconcileService services.ReconcileServiceInterface,
	logger *zap.Logger,
) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		exportService:       exportService,
		reconcileService:    reconcileService,
		logger:              logger,
	}
}

func (c *RegistrationController) CreateRegistration(ctx echo.Context) error {
	var payload dto.CreateRegistrationDTO
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

	registration, err := c.registrationService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, registration, "Документ зарегистрирован", http.StatusCreated)
}

func (c *RegistrationController) UpdateRegistration(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateRegistrationDTO
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

	if err := c.registrationService.Update(ctx.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Запись обновлена", http.StatusOK)
}

func (c *RegistrationController) DeleteRegistration(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.registrationService.Delete(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Запись удалена", http.StatusOK)
}

func (c *RegistrationController) FindRegistration(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	registration, err := c.registrationService.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, registration, "Successfully", http.StatusOK)
}

func (c *RegistrationController) GetRegistrations(ctx echo.Context) error {
	limit, offset := utils.ParsePaginationParams(ctx.QueryParams())

	filter := dto.RegistrationFilterDTO{
		Search: ctx.QueryParam("search"),
		Status: ctx.QueryParam("status"),
		Limit:  limit,
		Offset: offset,
	}
	if registryID, err := strconv.ParseUint(ctx.QueryParam("registry_id"), 10, 64); err == nil {
		filter.RegistryID = registryID
	}
	if year, err := strconv.Atoi(ctx.QueryParam("year")); err == nil {
		filter.Year = year
	}

	result, err := c.registrationService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Successfully", http.StatusOK)
}

// ExportRegistryBook отдаёт книгу журнала за год в xlsx.
func (c *RegistrationController) ExportRegistryBook(ctx echo.Context) error {
	registryID, err := strconv.ParseUint(ctx.QueryParam("registry_id"), 10, 64)
	if err != nil || registryID == 0 {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "некорректный или отсутствующий 'registry_id'", apperrors.ErrBadRequest, nil,
		), c.logger)
	}
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil || year == 0 {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, "некорректный или отсутствующий 'year'", apperrors.ErrBadRequest, nil,
		), c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="registry_book.xlsx"`)
	ctx.Response().WriteHeader(http.StatusOK)

	if err := c.exportService.ExportRegistryBook(ctx.Request().Context(), registryID, year, ctx.Response()); err != nil {
		c.logger.Error("ошибка выгрузки книги журнала", zap.Error(err))
		return err
	}
	return nil
}

// ReconcileDiskNames запускает сверку имён файлов по требованию.
func (c *RegistrationController) ReconcileDiskNames(ctx echo.Context) error {
	result, err := c.reconcileService.Run(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Сверка завершена", http.StatusOK)
}

func parseIDParam(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "неверный ID записи", apperrors.ErrBadRequest, nil)
	}
	return id, nil
}
