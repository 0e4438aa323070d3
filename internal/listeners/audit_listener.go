package listeners

import (
	"context"
	"fmt"

	"doc-registry/internal/events"
	"doc-registry/internal/repositories"
	"doc-registry/pkg/eventbus"

	"go.uber.org/zap"
)

// AuditListener складывает события в таблицу аудита. Ошибка записи аудита
// логируется шиной и не влияет на породившую событие операцию.
type AuditListener struct {
	auditRepo repositories.AuditRepositoryInterface
	logger    *zap.Logger
}

func NewAuditListener(auditRepo repositories.AuditRepositoryInterface, logger *zap.Logger) *AuditListener {
	return &AuditListener{auditRepo: auditRepo, logger: logger}
}

// Register подписывает слушателя на все события журнала.
func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RegistrationCreatedEvent{}.Name(), l.handle)
	bus.Subscribe(events.RegistrationUpdatedEvent{}.Name(), l.handle)
	bus.Subscribe(events.RegistrationDeletedEvent{}.Name(), l.handle)
	bus.Subscribe(events.AttachmentUploadedEvent{}.Name(), l.handle)
	bus.Subscribe(events.AttachmentDeletedEvent{}.Name(), l.handle)
}

func (l *AuditListener) handle(ctx context.Context, event eventbus.Event) error {
	var actorID, targetID uint64
	details := map[string]interface{}{}

	switch e := event.(type) {
	case events.RegistrationCreatedEvent:
		actorID, targetID = e.ActorID, e.RegistrationID
		details["number"] = e.Number
		details["attachment_count"] = e.AttachmentCount
	case events.RegistrationUpdatedEvent:
		actorID, targetID = e.ActorID, e.RegistrationID
		details["changed_fields"] = e.ChangedFields
	case events.RegistrationDeletedEvent:
		actorID, targetID = e.ActorID, e.RegistrationID
		details["number"] = e.Number
		details["deleted_count"] = e.DeletedCount
		details["physical_deleted_count"] = e.PhysicalDeletedCount
		details["physical_not_found_count"] = e.PhysicalNotFoundCount
	case events.AttachmentUploadedEvent:
		actorID, targetID = e.ActorID, e.AttachmentID
		details["size_bytes"] = e.SizeBytes
	case events.AttachmentDeletedEvent:
		actorID, targetID = e.ActorID, e.AttachmentID
		details["physical_removed"] = e.PhysicalRemoved
	default:
		return fmt.Errorf("неизвестный тип события: %T", event)
	}

	if err := l.auditRepo.Insert(ctx, event.Name(), actorID, targetID, details); err != nil {
		l.logger.Error("не удалось записать событие аудита",
			zap.String("event", event.Name()),
			zap.Uint64("targetID", targetID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
