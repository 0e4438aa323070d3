package entities

type Recipient struct {
	ID           uint64 `db:"id"`
	Name         string `db:"name"`
	DepartmentID uint64 `db:"department_id"`
}
