package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Registration — регистрационная запись. Номер присваивается при создании
// и после этого никогда не меняется.
type Registration struct {
	ID              uint64      `db:"id"`
	RegistryID      uint64      `db:"registry_id"`
	DocumentTypeID  uint64      `db:"document_type_id"`
	Number          string      `db:"number"`
	Year            int         `db:"year"`
	RegisteredAt    time.Time   `db:"registered_at"`
	Sender          string      `db:"sender"`
	RecipientID     uint64      `db:"recipient_id"`
	Subject         string      `db:"subject"`
	IsUrgent        bool        `db:"is_urgent"`
	Confidentiality null.String `db:"confidentiality"`
	Status          string      `db:"status"`
	CreatedBy       uint64      `db:"created_by"`
	CreatedAt       time.Time   `db:"created_at"`

	Attachments []Attachment `db:"-"` // заполняется вручную
}
