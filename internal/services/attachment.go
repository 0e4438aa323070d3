// Файл: internal/services/attachment.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"doc-registry/internal/dto"
	"doc-registry/internal/entities"
	"doc-registry/internal/events"
	"doc-registry/internal/repositories"
	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/eventbus"
	"doc-registry/pkg/filestorage"
	"doc-registry/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AttachmentServiceInterface управляет жизненным циклом вложений:
// загрузка, правка метаданных, замена, удаление, привязка к записи.
type AttachmentServiceInterface interface {
	Upload(ctx context.Context, file io.ReadSeeker, originalName string, size int64, data dto.UploadAttachmentDTO) (*dto.AttachmentResponseDTO, error)
	UpdateMetadata(ctx context.Context, id uint64, data dto.UpdateAttachmentDTO) error
	Replace(ctx context.Context, oldID, newID uint64) error
	ReplaceRowInTx(ctx context.Context, tx pgx.Tx, oldID uint64) (*entities.Attachment, error)
	Delete(ctx context.Context, id uint64) error
	Associate(ctx context.Context, data dto.AssociateAttachmentsDTO) (*dto.AssociateResultDTO, error)
	ListUnassigned(ctx context.Context, limit, offset uint64) ([]dto.AttachmentResponseDTO, error)
	RenameToNumber(ctx context.Context, attachment *entities.Attachment, number string) error
	DeletePhysical(ctx context.Context, attachment *entities.Attachment) bool
}

type AttachmentService struct {
	pool             *pgxpool.Pool
	repo             repositories.AttachmentRepositoryInterface
	registrationRepo repositories.RegistrationRepositoryInterface
	categoryLookup   CategoryLookupInterface
	departmentRepo   repositories.DepartmentRepositoryInterface
	fileStorage      filestorage.FileStorageInterface
	bus              *eventbus.Bus
	logger           *zap.Logger
	renameLocks      *keyedMutex
}

func NewAttachmentService(
	pool *pgxpool.Pool,
	repo repositories.AttachmentRepositoryInterface,
	registrationRepo repositories.RegistrationRepositoryInterface,
	categoryLookup CategoryLookupInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) AttachmentServiceInterface {
	return &AttachmentService{
		pool:             pool,
		repo:             repo,
		registrationRepo: registrationRepo,
		categoryLookup:   categoryLookup,
		departmentRepo:   departmentRepo,
		fileStorage:      fileStorage,
		bus:              bus,
		logger:           logger,
		renameLocks:      newKeyedMutex(),
	}
}

// Upload проверяет файл, кладёт его на диск и заводит запись метаданных.
// Запись в БД появляется только после полной записи файла: оборванная
// загрузка не оставляет видимых вложений.
func (s *AttachmentService) Upload(ctx context.Context, file io.ReadSeeker, originalName string, size int64, data dto.UploadAttachmentDTO) (*dto.AttachmentResponseDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	mimeType, err := utils.ValidateFile(size, file, "registration_document")
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%s", err.Error())
	}

	category, err := s.categoryLookup.FindByID(ctx, data.CategoryID)
	if err != nil {
		return nil, err
	}

	relativeDir, err := s.resolveDirectory(ctx, category.Name, data)
	if err != nil {
		return nil, err
	}

	saved, err := s.fileStorage.Save(file, originalName, relativeDir)
	if err != nil {
		s.logger.Error("не удалось сохранить файл вложения",
			zap.String("originalName", originalName), zap.Error(err))
		return nil, err
	}

	attachment := &entities.Attachment{
		OriginalName: originalName,
		DiskName:     saved.DiskName,
		RelativePath: saved.RelativePath,
		Extension:    strings.ToLower(filepath.Ext(originalName)),
		MimeType:     mimeType,
		SizeBytes:    saved.SizeBytes,
		ContentHash:  saved.ContentHash,
		CategoryID:   null.Uint64From(data.CategoryID),
		UploadedBy:   actorID,
	}
	if data.DocumentDate != nil {
		docDate, err := parseDocumentDate(*data.DocumentDate)
		if err != nil {
			return nil, err
		}
		attachment.DocumentDate = null.TimeFrom(docDate)
	}

	id, err := s.repo.Create(ctx, attachment)
	if err != nil {
		// Файл уже на диске, а строки нет — лишний файл подчищаем сразу.
		if _, delErr := s.fileStorage.Delete(saved.RelativePath); delErr != nil {
			s.logger.Warn("не удалось удалить осиротевший файл",
				zap.String("path", saved.RelativePath), zap.Error(delErr))
		}
		return nil, err
	}
	attachment.ID = id

	s.bus.Publish(ctx, events.AttachmentUploadedEvent{
		AttachmentID: id,
		ActorID:      actorID,
		SizeBytes:    saved.SizeBytes,
	})

	return attachmentToDTO(attachment), nil
}

// resolveDirectory строит директорию хранения: {год}/{отдел}/{категория},
// либо переиспользует директорию заменяемого вложения.
func (s *AttachmentService) resolveDirectory(ctx context.Context, categoryName string, data dto.UploadAttachmentDTO) (string, error) {
	if data.ReplaceAttachmentID != nil {
		existing, err := s.repo.FindByID(ctx, *data.ReplaceAttachmentID)
		if err != nil {
			return "", err
		}
		return path.Dir(existing.RelativePath), nil
	}

	department, err := s.departmentRepo.FindByID(ctx, data.DepartmentID)
	if err != nil {
		return "", err
	}

	return path.Join(
		fmt.Sprintf("%d", time.Now().Year()),
		utils.SanitizePathComponent(department.Name),
		utils.SanitizePathComponent(categoryName),
	), nil
}

// UpdateMetadata правит только метаданные; файл и путь не трогаются.
func (s *AttachmentService) UpdateMetadata(ctx context.Context, id uint64, data dto.UpdateAttachmentDTO) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if data.CategoryID != nil {
		if _, err := s.categoryLookup.FindByID(ctx, *data.CategoryID); err != nil {
			return err
		}
		fields["category_id"] = *data.CategoryID
	}
	if data.Confidentiality != nil {
		fields["confidentiality"] = *data.Confidentiality
	}
	if data.DocumentDate != nil {
		docDate, err := parseDocumentDate(*data.DocumentDate)
		if err != nil {
			return err
		}
		fields["document_date"] = docDate
	}

	return s.repo.UpdateMetadata(ctx, id, fields)
}

// Replace убирает старое вложение при замене файла: строка в БД удаляется,
// физический файл — по возможности. Повторный вызов с уже исчезнувшим
// старым вложением считается успешно завершённой заменой.
func (s *AttachmentService) Replace(ctx context.Context, oldID, newID uint64) error {
	if _, err := s.repo.FindByID(ctx, newID); err != nil {
		return err
	}

	var old *entities.Attachment
	err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var txErr error
		old, txErr = s.ReplaceRowInTx(ctx, tx, oldID)
		return txErr
	})
	if err != nil {
		return err
	}

	if old != nil {
		s.DeletePhysical(ctx, old)
	}
	return nil
}

// ReplaceRowInTx удаляет строку старого вложения в рамках чужой транзакции
// и возвращает её для последующей (после коммита) подчистки файла.
// Возврат (nil, nil) — замена уже была выполнена ранее.
func (s *AttachmentService) ReplaceRowInTx(ctx context.Context, tx pgx.Tx, oldID uint64) (*entities.Attachment, error) {
	old, err := s.repo.FindByID(ctx, oldID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.repo.DeleteInTx(ctx, tx, oldID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return old, nil
}

// Delete удаляет вложение. Строка в БД — первичный источник истины:
// отсутствие физического файла логируется, но операцию не проваливает.
// Повторное удаление — не ошибка: исчезнувшая строка считается уже
// выполненной работой.
func (s *AttachmentService) Delete(ctx context.Context, id uint64) error {
	attachment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Info("вложение уже отсутствует, удалять нечего", zap.Uint64("attachmentID", id))
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	removed := s.DeletePhysical(ctx, attachment)

	actorID, _ := utils.GetUserIDFromCtx(ctx)
	s.bus.Publish(ctx, events.AttachmentDeletedEvent{
		AttachmentID:    id,
		ActorID:         actorID,
		PhysicalRemoved: removed,
	})
	return nil
}

// DeletePhysical - удаление файла с диска по принципу "как получится".
func (s *AttachmentService) DeletePhysical(ctx context.Context, attachment *entities.Attachment) bool {
	removed, err := s.fileStorage.Delete(attachment.RelativePath)
	if err != nil {
		s.logger.Warn("не удалось удалить физический файл вложения",
			zap.Uint64("attachmentID", attachment.ID),
			zap.String("path", attachment.RelativePath),
			zap.Error(err),
		)
		return false
	}
	if !removed {
		s.logger.Info("физический файл вложения уже отсутствовал",
			zap.Uint64("attachmentID", attachment.ID),
			zap.String("path", attachment.RelativePath),
		)
	}
	return removed
}

// Associate привязывает свободные вложения к записи. Занятые чужой записью
// пропускаются и попадают в счётчик пропущенных. После коммита файлы
// переименовываются под номер записи; неудача переименования привязку
// не отменяет, расхождение добирает сверка.
func (s *AttachmentService) Associate(ctx context.Context, data dto.AssociateAttachmentsDTO) (*dto.AssociateResultDTO, error) {
	registration, err := s.registrationRepo.FindByID(ctx, data.RegistrationID)
	if err != nil {
		return nil, err
	}

	var bound int
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var txErr error
		bound, txErr = s.repo.BindToRegistrationInTx(ctx, tx, data.AttachmentIDs, data.RegistrationID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	attachments, err := s.repo.FindAllByRegistrationID(ctx, data.RegistrationID)
	if err != nil {
		s.logger.Error("не удалось перечитать вложения записи после привязки",
			zap.Uint64("registrationID", data.RegistrationID), zap.Error(err))
		attachments = nil
	}
	for i := range attachments {
		if err := s.RenameToNumber(ctx, &attachments[i], registration.Number); err != nil {
			s.logger.Warn("не удалось переименовать файл под регистрационный номер",
				zap.Uint64("attachmentID", attachments[i].ID),
				zap.String("number", registration.Number),
				zap.Error(err),
			)
		}
	}

	skipped := len(data.AttachmentIDs) - bound
	if skipped > 0 {
		s.logger.Warn("часть вложений уже привязана к другим записям",
			zap.Uint64("registrationID", data.RegistrationID),
			zap.Int("skipped", skipped),
		)
	}
	return &dto.AssociateResultDTO{BoundCount: bound, SkippedCount: skipped}, nil
}

func (s *AttachmentService) ListUnassigned(ctx context.Context, limit, offset uint64) ([]dto.AttachmentResponseDTO, error) {
	attachments, err := s.repo.ListUnassigned(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AttachmentResponseDTO, 0, len(attachments))
	for i := range attachments {
		result = append(result, *attachmentToDTO(&attachments[i]))
	}
	return result, nil
}

// RenameToNumber переименовывает файл так, чтобы имя несло номер записи:
// {номер}_{исходное имя без расширения}{расширение}. Конкурентные
// переименования одного вложения сериализуются по его id.
func (s *AttachmentService) RenameToNumber(ctx context.Context, attachment *entities.Attachment, number string) error {
	s.renameLocks.Lock(attachment.ID)
	defer s.renameLocks.Unlock(attachment.ID)

	base := strings.TrimSuffix(attachment.OriginalName, filepath.Ext(attachment.OriginalName))
	newDiskName := fmt.Sprintf("%s_%s%s", number, utils.SanitizeFileName(base), attachment.Extension)
	if attachment.DiskName == newDiskName {
		return nil
	}

	newRelativePath, err := s.fileStorage.Rename(attachment.RelativePath, newDiskName)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateDiskName(ctx, attachment.ID, newDiskName, newRelativePath); err != nil {
		return err
	}

	attachment.DiskName = newDiskName
	attachment.RelativePath = newRelativePath
	return nil
}

func attachmentToDTO(a *entities.Attachment) *dto.AttachmentResponseDTO {
	result := &dto.AttachmentResponseDTO{
		ID:           a.ID,
		OriginalName: a.OriginalName,
		DiskName:     a.DiskName,
		MimeType:     a.MimeType,
		SizeBytes:    a.SizeBytes,
		ContentHash:  a.ContentHash,
		URL:          "/static/" + a.RelativePath,
	}
	if a.RegistrationID.Valid {
		result.RegistrationID = utils.ToPtr(a.RegistrationID.Uint64)
	}
	if a.CategoryID.Valid {
		result.CategoryID = utils.ToPtr(a.CategoryID.Uint64)
	}
	if a.DocumentDate.Valid {
		result.DocumentDate = utils.ToPtr(a.DocumentDate.Time.Format("2006-01-02"))
	}
	return result
}

func parseDocumentDate(value string) (time.Time, error) {
	docDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("неверный формат даты документа: %s", value)
	}
	return docDate, nil
}
