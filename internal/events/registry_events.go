package events

// События журнала регистрации. Публикуются после успешного завершения
// операции и обрабатываются асинхронно; их доставка никак не влияет
// на исход самой операции.

type RegistrationCreatedEvent struct {
	RegistrationID  uint64
	Number          string
	ActorID         uint64
	AttachmentCount int
}

func (e RegistrationCreatedEvent) Name() string { return "registration.created" }

type RegistrationUpdatedEvent struct {
	RegistrationID uint64
	ActorID        uint64
	ChangedFields  []string
}

func (e RegistrationUpdatedEvent) Name() string { return "registration.updated" }

// RegistrationDeletedEvent — одно событие на каскадное удаление,
// с итоговыми счётчиками, а не по событию на файл.
type RegistrationDeletedEvent struct {
	RegistrationID        uint64
	Number                string
	ActorID               uint64
	DeletedCount          int
	PhysicalDeletedCount  int
	PhysicalNotFoundCount int
}

func (e RegistrationDeletedEvent) Name() string { return "registration.deleted" }

type AttachmentUploadedEvent struct {
	AttachmentID uint64
	ActorID      uint64
	SizeBytes    int64
}

func (e AttachmentUploadedEvent) Name() string { return "attachment.uploaded" }

type AttachmentDeletedEvent struct {
	AttachmentID    uint64
	ActorID         uint64
	PhysicalRemoved bool
}

func (e AttachmentDeletedEvent) Name() string { return "attachment.deleted" }
