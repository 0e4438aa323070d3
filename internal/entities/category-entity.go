package entities

import "github.com/aarondl/null/v8"

type Category struct {
	ID                     uint64      `db:"id"`
	Name                   string      `db:"name"`
	DefaultConfidentiality null.String `db:"default_confidentiality"`
}
