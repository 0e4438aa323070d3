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

type AttachmentController struct {
	attachmentService services.AttachmentServiceInterface
	logger            *zap.Logger
}

func NewAttachmentController(attachmentService services.AttachmentServiceInterface, logger *zap.Logger) *AttachmentController {
	return &AttachmentController{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Upload принимает multipart-форму: поле "file" плюс метаданные вложения.
func (c *AttachmentController) Upload(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			return utils.ErrorResponse(ctx, apperrors.NewHttpError(
				http.StatusBadRequest, "файл не был предоставлен", apperrors.ErrBadRequest, nil,
			), c.logger)
		}
		c.logger.Error("Upload: ошибка при получении файла", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusInternalServerError, "ошибка при получении файла", err, nil,
		), c.logger)
	}

	payload, err := parseUploadForm(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusBadRequest, err.Error(), apperrors.ErrBadRequest, nil,
		), c.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.logger.Error("Upload: не удалось открыть файл", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(
			http.StatusInternalServerError, "не удалось открыть файл", err, nil,
		), c.logger)
	}
	defer src.Close()

	attachment, err := c.attachmentService.Upload(
		ctx.Request().Context(), src, fileHeader.Filename, fileHeader.Size, *payload,
	)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, attachment, "Файл загружен", http.StatusCreated)
}

func (c *AttachmentController) UpdateMetadata(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAttachmentDTO
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

	if err := c.attachmentService.UpdateMetadata(ctx.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Метаданные обновлены", http.StatusOK)
}

func (c *AttachmentController) Delete(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.attachmentService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Вложение удалено", http.StatusOK)
}

func (c *AttachmentController) Associate(ctx echo.Context) error {
	var payload dto.AssociateAttachmentsDTO
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

	result, err := c.attachmentService.Associate(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Вложения привязаны", http.StatusOK)
}

func (c *AttachmentController) ListUnassigned(ctx echo.Context) error {
	limit, offset := utils.ParsePaginationParams(ctx.QueryParams())

	attachments, err := c.attachmentService.ListUnassigned(ctx.Request().Context(), limit, offset)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, attachments, "Successfully", http.StatusOK)
}

// parseUploadForm собирает DTO из полей multipart-формы: Bind у echo не
// заполняет структуру из form-data вместе с файлом так, как нам нужно.
func parseUploadForm(ctx echo.Context) (*dto.UploadAttachmentDTO, error) {
	categoryID, err := strconv.ParseUint(ctx.FormValue("category_id"), 10, 64)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("некорректное поле 'category_id'")
	}
	departmentID, err := strconv.ParseUint(ctx.FormValue("department_id"), 10, 64)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("некорректное поле 'department_id'")
	}

	payload := &dto.UploadAttachmentDTO{
		CategoryID:   categoryID,
		DepartmentID: departmentID,
	}
	if v := ctx.FormValue("document_date"); v != "" {
		payload.DocumentDate = &v
	}
	if v := ctx.FormValue("replace_attachment_id"); v != "" {
		replaceID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("некорректное поле 'replace_attachment_id'")
		}
		payload.ReplaceAttachmentID = &replaceID
	}
	return payload, nil
}
