// Файл: internal/services/export.go
package services

import (
	"context"
	"fmt"
	"io"

	"doc-registry/internal/dto"
	"doc-registry/internal/repositories"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportServiceInterface выгружает книгу журнала за год в xlsx.
type ExportServiceInterface interface {
	ExportRegistryBook(ctx context.Context, registryID uint64, year int, w io.Writer) error
}

type ExportService struct {
	registryRepo     repositories.RegistryRepositoryInterface
	registrationRepo repositories.RegistrationRepositoryInterface
	attachmentRepo   repositories.AttachmentRepositoryInterface
	logger           *zap.Logger
}

func NewExportService(
	registryRepo repositories.RegistryRepositoryInterface,
	registrationRepo repositories.RegistrationRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	logger *zap.Logger,
) ExportServiceInterface {
	return &ExportService{
		registryRepo:     registryRepo,
		registrationRepo: registrationRepo,
		attachmentRepo:   attachmentRepo,
		logger:           logger,
	}
}

func (s *ExportService) ExportRegistryBook(ctx context.Context, registryID uint64, year int, w io.Writer) error {
	registry, err := s.registryRepo.FindByID(ctx, registryID)
	if err != nil {
		return err
	}

	registrations, _, err := s.registrationRepo.List(ctx, dto.RegistrationFilterDTO{
		RegistryID: registryID,
		Year:       year,
	})
	if err != nil {
		return err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := fmt.Sprintf("%s %d", registry.Code, year)
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"Номер", "Дата регистрации", "Отправитель", "Тема", "Статус", "Вложений"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for row, reg := range registrations {
		attachments, err := s.attachmentRepo.FindAllByRegistrationID(ctx, reg.ID)
		if err != nil {
			s.logger.Warn("выгрузка: не удалось получить вложения записи",
				zap.Uint64("registrationID", reg.ID), zap.Error(err))
		}

		values := []interface{}{
			reg.Number,
			reg.RegisteredAt.Format("02.01.2006"),
			reg.Sender,
			reg.Subject,
			reg.Status,
			len(attachments),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return file.Write(w)
}
