// Файл: internal/services/registration.go
package services

import (
	"context"
	"errors"
	"time"

	"doc-registry/internal/dto"
	"doc-registry/internal/entities"
	"doc-registry/internal/events"
	"doc-registry/internal/repositories"
	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/eventbus"
	"doc-registry/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Дубликат номера при корректном счётчике — редкость (гонка засева),
// поэтому хватает пары повторов.
const createMaxAttempts = 3

type RegistrationServiceInterface interface {
	Create(ctx context.Context, data dto.CreateRegistrationDTO) (*dto.RegistrationResponseDTO, error)
	Update(ctx context.Context, id uint64, data dto.UpdateRegistrationDTO) error
	Delete(ctx context.Context, id uint64) (*dto.CascadeDeleteResultDTO, error)
	FindByID(ctx context.Context, id uint64) (*dto.RegistrationResponseDTO, error)
	List(ctx context.Context, filter dto.RegistrationFilterDTO) (*dto.RegistrationListResponseDTO, error)
}

type RegistrationService struct {
	pool              *pgxpool.Pool
	registrationRepo  repositories.RegistrationRepositoryInterface
	registryRepo      repositories.RegistryRepositoryInterface
	documentTypeRepo  repositories.DocumentTypeRepositoryInterface
	recipientRepo     repositories.RecipientRepositoryInterface
	attachmentRepo    repositories.AttachmentRepositoryInterface
	sequenceRepo      repositories.SequenceRepositoryInterface
	allocator         SequenceAllocatorInterface
	attachmentService AttachmentServiceInterface
	categoryLookup    CategoryLookupInterface
	cascade           CascadeDeleteCoordinatorInterface
	bus               *eventbus.Bus
	logger            *zap.Logger
}

func NewRegistrationService(
	pool *pgxpool.Pool,
	registrationRepo repositories.RegistrationRepositoryInterface,
	registryRepo repositories.RegistryRepositoryInterface,
	documentTypeRepo repositories.DocumentTypeRepositoryInterface,
	recipientRepo repositories.RecipientRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	sequenceRepo repositories.SequenceRepositoryInterface,
	allocator SequenceAllocatorInterface,
	attachmentService AttachmentServiceInterface,
	categoryLookup CategoryLookupInterface,
	cascade CascadeDeleteCoordinatorInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RegistrationServiceInterface {
	return &RegistrationService{
		pool:              pool,
		registrationRepo:  registrationRepo,
		registryRepo:      registryRepo,
		documentTypeRepo:  documentTypeRepo,
		recipientRepo:     recipientRepo,
		attachmentRepo:    attachmentRepo,
		sequenceRepo:      sequenceRepo,
		allocator:         allocator,
		attachmentService: attachmentService,
		categoryLookup:    categoryLookup,
		cascade:           cascade,
		bus:               bus,
		logger:            logger,
	}
}

// Create регистрирует документ: в одной транзакции выдаётся номер,
// вставляется запись и привязываются вложения. Переименование файлов
// под номер происходит после коммита и не влияет на исход операции.
func (s *RegistrationService) Create(ctx context.Context, data dto.CreateRegistrationDTO) (*dto.RegistrationResponseDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := s.registryRepo.FindByID(ctx, data.RegistryID)
	if err != nil {
		return nil, err
	}
	if !registry.IsActive {
		return nil, apperrors.NewInvalidInputError("журнал %q закрыт для регистрации", registry.Code)
	}

	docType, err := s.documentTypeRepo.FindByID(ctx, data.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	if docType.RegistryID != registry.ID {
		return nil, apperrors.NewInvalidInputError("тип документа не принадлежит указанному журналу")
	}

	if _, err := s.recipientRepo.FindByID(ctx, data.RecipientID); err != nil {
		return nil, err
	}

	confidentiality, err := s.resolveConfidentiality(ctx, data)
	if err != nil {
		return nil, err
	}

	var docDate *time.Time
	if data.DocumentDate != nil {
		parsed, err := parseDocumentDate(*data.DocumentDate)
		if err != nil {
			return nil, err
		}
		docDate = &parsed
	}

	registration := &entities.Registration{
		RegistryID:     registry.ID,
		DocumentTypeID: docType.ID,
		Year:           registry.Year,
		RegisteredAt:   time.Now(),
		Sender:         data.Sender,
		RecipientID:    data.RecipientID,
		Subject:        data.Subject,
		IsUrgent:       data.IsUrgent,
		Status:         "registered",
		CreatedBy:      actorID,
	}
	if confidentiality != nil {
		registration.Confidentiality = null.StringFrom(*confidentiality)
	}

	var lastErr error
	for attempt := 1; attempt <= createMaxAttempts; attempt++ {
		lastErr = s.createOnce(ctx, registration, data, docDate)
		if lastErr == nil {
			break
		}
		if !errors.Is(lastErr, apperrors.ErrDuplicateNumber) {
			return nil, lastErr
		}
		s.logger.Warn("конфликт регистрационного номера, повтор",
			zap.Uint64("registryID", registry.ID),
			zap.Int("attempt", attempt),
		)
	}
	if lastErr != nil {
		return nil, lastErr
	}

	// Запись уже закоммичена: имя файла может отставать от номера,
	// это допустимое состояние, которое добирает сверка.
	attachments, err := s.attachmentRepo.FindAllByRegistrationID(ctx, registration.ID)
	if err != nil {
		s.logger.Error("не удалось перечитать вложения записи после создания",
			zap.Uint64("registrationID", registration.ID), zap.Error(err))
		attachments = nil
	}
	for i := range attachments {
		if err := s.attachmentService.RenameToNumber(ctx, &attachments[i], registration.Number); err != nil {
			s.logger.Warn("не удалось переименовать файл под регистрационный номер",
				zap.Uint64("attachmentID", attachments[i].ID),
				zap.String("number", registration.Number),
				zap.Error(err),
			)
		}
	}

	s.bus.Publish(ctx, events.RegistrationCreatedEvent{
		RegistrationID:  registration.ID,
		Number:          registration.Number,
		ActorID:         actorID,
		AttachmentCount: len(attachments),
	})

	return registrationToDTO(registration, attachments), nil
}

func (s *RegistrationService) createOnce(ctx context.Context, registration *entities.Registration, data dto.CreateRegistrationDTO, docDate *time.Time) error {
	return repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if data.ExplicitNumber != nil {
			// Импорт из старых журналов: номер задан явно, счётчик
			// поднимается, чтобы следующая выдача его не повторила.
			seq, err := repositories.ParseSequenceSuffix(*data.ExplicitNumber)
			if err != nil {
				return err
			}
			if err := s.sequenceRepo.EnsureAtLeastInTx(ctx, tx, registration.RegistryID, registration.Year, seq); err != nil {
				return err
			}
			registration.Number = *data.ExplicitNumber
		} else {
			number, err := s.allocator.NextInTx(ctx, tx, registration.RegistryID, registration.Year)
			if err != nil {
				return err
			}
			registration.Number = number
		}

		id, err := s.registrationRepo.CreateInTx(ctx, tx, registration)
		if err != nil {
			return err
		}
		registration.ID = id

		if len(data.AttachmentIDs) > 0 {
			bound, err := s.attachmentRepo.BindToRegistrationInTx(ctx, tx, data.AttachmentIDs, id)
			if err != nil {
				return err
			}
			if bound < len(data.AttachmentIDs) {
				s.logger.Warn("часть вложений уже занята другими записями",
					zap.Uint64("registrationID", id),
					zap.Int("requested", len(data.AttachmentIDs)),
					zap.Int("bound", bound),
				)
			}
			if docDate != nil {
				if err := s.attachmentRepo.SetDocumentDateInTx(ctx, tx, id, data.AttachmentIDs, *docDate); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// resolveConfidentiality: явное значение, иначе — уровень по умолчанию
// категории первого вложения. Применяется один раз, при создании.
func (s *RegistrationService) resolveConfidentiality(ctx context.Context, data dto.CreateRegistrationDTO) (*string, error) {
	if data.Confidentiality != nil {
		return data.Confidentiality, nil
	}
	if len(data.AttachmentIDs) == 0 {
		return nil, nil
	}

	first, err := s.attachmentRepo.FindByID(ctx, data.AttachmentIDs[0])
	if err != nil {
		return nil, err
	}
	if !first.CategoryID.Valid {
		return nil, nil
	}
	return s.categoryLookup.GetDefaultConfidentiality(ctx, first.CategoryID.Uint64)
}

// Update применяет частичное обновление; при заданной паре
// oldAttachmentID/newAttachmentID выполняется замена файла: строки
// меняются в транзакции, физика — сразу после коммита.
func (s *RegistrationService) Update(ctx context.Context, id uint64, data dto.UpdateRegistrationDTO) error {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	registration, err := s.registrationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if data.Subject != nil {
		fields["subject"] = *data.Subject
	}
	if data.Sender != nil {
		fields["sender"] = *data.Sender
	}
	if data.RecipientID != nil {
		if _, err := s.recipientRepo.FindByID(ctx, *data.RecipientID); err != nil {
			return err
		}
		fields["recipient_id"] = *data.RecipientID
	}
	if data.IsUrgent != nil {
		fields["is_urgent"] = *data.IsUrgent
	}
	if data.Confidentiality != nil {
		fields["confidentiality"] = *data.Confidentiality
	}
	if data.Status != nil {
		fields["status"] = *data.Status
	}

	swap := data.OldAttachmentID != nil && data.NewAttachmentID != nil &&
		*data.OldAttachmentID != *data.NewAttachmentID

	var docDate *time.Time
	if data.DocumentDate != nil {
		parsed, err := parseDocumentDate(*data.DocumentDate)
		if err != nil {
			return err
		}
		docDate = &parsed
	}

	var oldAttachment *entities.Attachment
	var newAttachment *entities.Attachment

	if swap {
		newAttachment, err = s.attachmentRepo.FindByID(ctx, *data.NewAttachmentID)
		if err != nil {
			return err
		}
		if newAttachment.RegistrationID.Valid && newAttachment.RegistrationID.Uint64 != id {
			return apperrors.NewInvalidInputError("новое вложение уже принадлежит другой записи")
		}
	}

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.registrationRepo.UpdateInTx(ctx, tx, id, fields); err != nil {
			return err
		}

		if swap {
			var txErr error
			oldAttachment, txErr = s.attachmentService.ReplaceRowInTx(ctx, tx, *data.OldAttachmentID)
			if txErr != nil {
				return txErr
			}
			if _, txErr = s.attachmentRepo.BindToRegistrationInTx(ctx, tx, []uint64{newAttachment.ID}, id); txErr != nil {
				return txErr
			}
		}

		if docDate != nil {
			// При замене дата касается только вновь привязанного файла,
			// без замены — всех вложений записи.
			var dateIDs []uint64
			if swap {
				dateIDs = []uint64{newAttachment.ID}
			}
			if txErr := s.attachmentRepo.SetDocumentDateInTx(ctx, tx, id, dateIDs, *docDate); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if swap {
		if oldAttachment != nil {
			s.attachmentService.DeletePhysical(ctx, oldAttachment)
		}
		if err := s.attachmentService.RenameToNumber(ctx, newAttachment, registration.Number); err != nil {
			s.logger.Warn("не удалось переименовать новый файл под номер записи",
				zap.Uint64("attachmentID", newAttachment.ID),
				zap.String("number", registration.Number),
				zap.Error(err),
			)
		}
	}

	changed := make([]string, 0, len(fields))
	for column := range fields {
		changed = append(changed, column)
	}
	if swap {
		changed = append(changed, "attachment")
	}
	s.bus.Publish(ctx, events.RegistrationUpdatedEvent{
		RegistrationID: id,
		ActorID:        actorID,
		ChangedFields:  changed,
	})
	return nil
}

// Delete — каскадное удаление записи вместе с вложениями.
func (s *RegistrationService) Delete(ctx context.Context, id uint64) (*dto.CascadeDeleteResultDTO, error) {
	return s.cascade.DeleteWithAttachments(ctx, id)
}

func (s *RegistrationService) FindByID(ctx context.Context, id uint64) (*dto.RegistrationResponseDTO, error) {
	registration, err := s.registrationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.FindAllByRegistrationID(ctx, id)
	if err != nil {
		return nil, err
	}
	return registrationToDTO(registration, attachments), nil
}

func (s *RegistrationService) List(ctx context.Context, filter dto.RegistrationFilterDTO) (*dto.RegistrationListResponseDTO, error) {
	registrations, total, err := s.registrationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := make([]dto.RegistrationResponseDTO, 0, len(registrations))
	for i := range registrations {
		list = append(list, *registrationToDTO(&registrations[i], nil))
	}
	return &dto.RegistrationListResponseDTO{List: list, TotalCount: total}, nil
}

func registrationToDTO(reg *entities.Registration, attachments []entities.Attachment) *dto.RegistrationResponseDTO {
	result := &dto.RegistrationResponseDTO{
		ID:             reg.ID,
		RegistryID:     reg.RegistryID,
		DocumentTypeID: reg.DocumentTypeID,
		Number:         reg.Number,
		Year:           reg.Year,
		RegisteredAt:   reg.RegisteredAt.Format(time.RFC3339),
		Sender:         reg.Sender,
		RecipientID:    reg.RecipientID,
		Subject:        reg.Subject,
		IsUrgent:       reg.IsUrgent,
		Status:         reg.Status,
	}
	if reg.Confidentiality.Valid {
		result.Confidentiality = utils.ToPtr(reg.Confidentiality.String)
	}
	for i := range attachments {
		result.Attachments = append(result.Attachments, *attachmentToDTO(&attachments[i]))
	}
	return result
}
