// Файл: internal/services/cascade.go
package services

import (
	"context"

	"doc-registry/internal/dto"
	"doc-registry/internal/events"
	"doc-registry/internal/repositories"
	"doc-registry/pkg/eventbus"
	"doc-registry/pkg/filestorage"
	"doc-registry/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CascadeDeleteCoordinatorInterface удаляет запись вместе с вложениями.
// Физическая подчистка идёт ДО удаления строк: если файл удалить не
// удалось, запись остаётся и продолжает указывать на него — осиротевший
// файл лучше потерянной ссылки.
type CascadeDeleteCoordinatorInterface interface {
	DeleteWithAttachments(ctx context.Context, registrationID uint64) (*dto.CascadeDeleteResultDTO, error)
}

type CascadeDeleteCoordinator struct {
	pool             *pgxpool.Pool
	registrationRepo repositories.RegistrationRepositoryInterface
	attachmentRepo   repositories.AttachmentRepositoryInterface
	fileStorage      filestorage.FileStorageInterface
	bus              *eventbus.Bus
	logger           *zap.Logger
}

func NewCascadeDeleteCoordinator(
	pool *pgxpool.Pool,
	registrationRepo repositories.RegistrationRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) CascadeDeleteCoordinatorInterface {
	return &CascadeDeleteCoordinator{
		pool:             pool,
		registrationRepo: registrationRepo,
		attachmentRepo:   attachmentRepo,
		fileStorage:      fileStorage,
		bus:              bus,
		logger:           logger,
	}
}

func (c *CascadeDeleteCoordinator) DeleteWithAttachments(ctx context.Context, registrationID uint64) (*dto.CascadeDeleteResultDTO, error) {
	registration, err := c.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	attachments, err := c.attachmentRepo.FindAllByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	result := &dto.CascadeDeleteResultDTO{DeletedCount: len(attachments)}
	for i := range attachments {
		removed, err := c.fileStorage.Delete(attachments[i].RelativePath)
		if err != nil {
			// Файл есть, но удалить его нельзя (права и т.п.) — операция
			// прерывается, строки остаются указывать на файлы.
			c.logger.Error("сбой физического удаления, каскад прерван",
				zap.Uint64("registrationID", registrationID),
				zap.Uint64("attachmentID", attachments[i].ID),
				zap.String("path", attachments[i].RelativePath),
				zap.Error(err),
			)
			return nil, err
		}
		if removed {
			result.PhysicalDeletedCount++
		} else {
			result.PhysicalNotFoundCount++
		}
	}

	err = repositories.WithTx(ctx, c.pool, func(tx pgx.Tx) error {
		// Каскад по внешнему ключу удаляет строки вложений.
		return c.registrationRepo.DeleteInTx(ctx, tx, registrationID)
	})
	if err != nil {
		return nil, err
	}

	actorID, _ := utils.GetUserIDFromCtx(ctx)
	c.bus.Publish(ctx, events.RegistrationDeletedEvent{
		RegistrationID:        registrationID,
		Number:                registration.Number,
		ActorID:               actorID,
		DeletedCount:          result.DeletedCount,
		PhysicalDeletedCount:  result.PhysicalDeletedCount,
		PhysicalNotFoundCount: result.PhysicalNotFoundCount,
	})

	return result, nil
}
