// Файл: internal/services/reconcile.go
package services

import (
	"context"

	"doc-registry/internal/dto"
	"doc-registry/internal/repositories"

	"go.uber.org/zap"
)

// ReconcileServiceInterface — сверка имён файлов. БД первична, имя файла —
// лишь кеш номера: если переименование когда-то сорвалось, сверка
// добирает его отложенно.
type ReconcileServiceInterface interface {
	Run(ctx context.Context) (*dto.ReconcileResultDTO, error)
}

type ReconcileService struct {
	attachmentRepo    repositories.AttachmentRepositoryInterface
	attachmentService AttachmentServiceInterface
	logger            *zap.Logger
}

func NewReconcileService(
	attachmentRepo repositories.AttachmentRepositoryInterface,
	attachmentService AttachmentServiceInterface,
	logger *zap.Logger,
) ReconcileServiceInterface {
	return &ReconcileService{
		attachmentRepo:    attachmentRepo,
		attachmentService: attachmentService,
		logger:            logger,
	}
}

func (s *ReconcileService) Run(ctx context.Context) (*dto.ReconcileResultDTO, error) {
	mismatched, err := s.attachmentRepo.FindMismatchedDiskNames(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.ReconcileResultDTO{CheckedCount: len(mismatched)}
	for i := range mismatched {
		attachment := mismatched[i].Attachment
		if err := s.attachmentService.RenameToNumber(ctx, &attachment, mismatched[i].Number); err != nil {
			result.FailedCount++
			s.logger.Warn("сверка: переименование не удалось",
				zap.Uint64("attachmentID", attachment.ID),
				zap.String("number", mismatched[i].Number),
				zap.Error(err),
			)
			continue
		}
		result.RenamedCount++
	}

	s.logger.Info("сверка имён файлов завершена",
		zap.Int("checked", result.CheckedCount),
		zap.Int("renamed", result.RenamedCount),
		zap.Int("failed", result.FailedCount),
	)
	return result, nil
}
