package dto

type UploadAttachmentDTO struct {
	CategoryID   uint64  `json:"category_id" validate:"required,gt=0"`
	DepartmentID uint64  `json:"department_id" validate:"required,gt=0"`
	DocumentDate *string `json:"document_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Если задано — это замена файла существующего вложения: новый файл
	// кладётся в ту же директорию, что и старый.
	ReplaceAttachmentID *uint64 `json:"replace_attachment_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateAttachmentDTO struct {
	CategoryID      *uint64 `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Confidentiality *string `json:"confidentiality,omitempty" validate:"omitempty,oneof=public internal confidential"`
	DocumentDate    *string `json:"document_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type AttachmentResponseDTO struct {
	ID             uint64  `json:"id"`
	OriginalName   string  `json:"original_name"`
	DiskName       string  `json:"disk_name"`
	MimeType       string  `json:"mime_type"`
	SizeBytes      int64   `json:"size_bytes"`
	ContentHash    string  `json:"content_hash"`
	RegistrationID *uint64 `json:"registration_id,omitempty"`
	CategoryID     *uint64 `json:"category_id,omitempty"`
	DocumentDate   *string `json:"document_date,omitempty"`
	URL            string  `json:"url"`
}

type AssociateAttachmentsDTO struct {
	AttachmentIDs  []uint64 `json:"attachment_ids" validate:"required,min=1,dive,gt=0"`
	RegistrationID uint64   `json:"registration_id" validate:"required,gt=0"`
}

type AssociateResultDTO struct {
	BoundCount   int `json:"bound_count"`
	SkippedCount int `json:"skipped_count"`
}

type ReconcileResultDTO struct {
	CheckedCount int `json:"checked_count"`
	RenamedCount int `json:"renamed_count"`
	FailedCount  int `json:"failed_count"`
}
