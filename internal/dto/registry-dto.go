package dto

type CreateRegistryDTO struct {
	Code         string `json:"code" validate:"required,min=2,max=10,uppercase,alphanumunicode"`
	Name         string `json:"name" validate:"required,min=3,max=255"`
	DepartmentID uint64 `json:"department_id" validate:"required,gt=0"`
	Year         int    `json:"year" validate:"required,gte=2000,lte=2100"`
}

type RegistryResponseDTO struct {
	ID           uint64 `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	DepartmentID uint64 `json:"department_id"`
	Year         int    `json:"year"`
	IsActive     bool   `json:"is_active"`
}
