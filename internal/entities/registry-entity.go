package entities

import "time"

// Registry — журнал регистрации. Код журнала стабилен и служит
// префиксом регистрационных номеров.
type Registry struct {
	ID           uint64    `db:"id"`
	Code         string    `db:"code"`
	Name         string    `db:"name"`
	DepartmentID uint64    `db:"department_id"`
	Year         int       `db:"year"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}
