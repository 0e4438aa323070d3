package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Attachment принадлежит не более чем одной регистрационной записи.
// registration_id IS NULL — файл лежит в пуле нераспределённых.
type Attachment struct {
	ID              uint64      `db:"id"`
	OriginalName    string      `db:"original_name"`
	DiskName        string      `db:"disk_name"`
	RelativePath    string      `db:"relative_path"`
	Extension       string      `db:"extension"`
	MimeType        string      `db:"mime_type"`
	SizeBytes       int64       `db:"size_bytes"`
	ContentHash     string      `db:"content_hash"`
	RegistrationID  null.Uint64 `db:"registration_id"`
	CategoryID      null.Uint64 `db:"category_id"`
	Confidentiality null.String `db:"confidentiality"`
	DocumentDate    null.Time   `db:"document_date"`
	UploadedBy      uint64      `db:"uploaded_by"`
	CreatedAt       time.Time   `db:"created_at"`
}
