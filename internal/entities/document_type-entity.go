package entities

type DocumentType struct {
	ID         uint64 `db:"id"`
	RegistryID uint64 `db:"registry_id"`
	Name       string `db:"name"`
}
