package entities

type Department struct {
	ID   uint64 `db:"id"`
	Name string `db:"name"`
}
