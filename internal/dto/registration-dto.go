package dto

type CreateRegistrationDTO struct {
	RegistryID      uint64   `json:"registry_id" validate:"required,gt=0"`
	DocumentTypeID  uint64   `json:"document_type_id" validate:"required,gt=0"`
	Subject         string   `json:"subject" validate:"required,min=3,max=1000"`
	Sender          string   `json:"sender" validate:"required,min=2,max=255"`
	RecipientID     uint64   `json:"recipient_id" validate:"required,gt=0"`
	AttachmentIDs   []uint64 `json:"attachment_ids,omitempty"`
	IsUrgent        bool     `json:"is_urgent,omitempty"`
	Confidentiality *string  `json:"confidentiality,omitempty" validate:"omitempty,oneof=public internal confidential"`
	DocumentDate    *string  `json:"document_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Явный номер используется только при импорте из старых журналов.
	ExplicitNumber *string `json:"explicit_number,omitempty"`
}

type UpdateRegistrationDTO struct {
	Subject         *string `json:"subject,omitempty" validate:"omitempty,min=3,max=1000"`
	Sender          *string `json:"sender,omitempty" validate:"omitempty,min=2,max=255"`
	RecipientID     *uint64 `json:"recipient_id,omitempty" validate:"omitempty,gt=0"`
	IsUrgent        *bool   `json:"is_urgent,omitempty"`
	Confidentiality *string `json:"confidentiality,omitempty" validate:"omitempty,oneof=public internal confidential"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=registered in_progress closed"`

	// Замена файла: оба поля задаются вместе.
	OldAttachmentID *uint64 `json:"old_attachment_id,omitempty" validate:"omitempty,gt=0"`
	NewAttachmentID *uint64 `json:"new_attachment_id,omitempty" validate:"omitempty,gt=0"`
	DocumentDate    *string `json:"document_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type RegistrationResponseDTO struct {
	ID              uint64                  `json:"id"`
	RegistryID      uint64                  `json:"registry_id"`
	DocumentTypeID  uint64                  `json:"document_type_id"`
	Number          string                  `json:"number"`
	Year            int                     `json:"year"`
	RegisteredAt    string                  `json:"registered_at"`
	Sender          string                  `json:"sender"`
	RecipientID     uint64                  `json:"recipient_id"`
	Subject         string                  `json:"subject"`
	IsUrgent        bool                    `json:"is_urgent"`
	Confidentiality *string                 `json:"confidentiality,omitempty"`
	Status          string                  `json:"status"`
	Attachments     []AttachmentResponseDTO `json:"attachments,omitempty"`
}

type RegistrationListResponseDTO struct {
	List       []RegistrationResponseDTO `json:"list"`
	TotalCount uint64                    `json:"total_count"`
}

type RegistrationFilterDTO struct {
	RegistryID uint64
	Year       int
	Status     string
	Search     string
	Limit      uint64
	Offset     uint64
}

type CascadeDeleteResultDTO struct {
	DeletedCount          int `json:"deleted_count"`
	PhysicalDeletedCount  int `json:"physical_deleted_count"`
	PhysicalNotFoundCount int `json:"physical_not_found_count"`
}
