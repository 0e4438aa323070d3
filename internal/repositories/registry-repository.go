package repositories

import (
	"context"
	"errors"

	"doc-registry/internal/entities"
	apperrors "doc-registry/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistryRepositoryInterface interface {
	Create(ctx context.Context, registry *entities.Registry) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Registry, error)
	GetAll(ctx context.Context) ([]entities.Registry, error)
}

type registryRepository struct {
	storage *pgxpool.Pool
}

func NewRegistryRepository(storage *pgxpool.Pool) RegistryRepositoryInterface {
	return &registryRepository{storage: storage}
}

func (r *registryRepository) Create(ctx context.Context, registry *entities.Registry) (uint64, error) {
	query := `
		INSERT INTO registries (code, name, department_id, year, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		registry.Code, registry.Name, registry.DepartmentID, registry.Year, registry.IsActive,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrDuplicateCode
		}
		return 0, err
	}
	return id, nil
}

func (r *registryRepository) FindByID(ctx context.Context, id uint64) (*entities.Registry, error) {
	query := `
		SELECT id, code, name, department_id, year, is_active, created_at
		FROM registries
		WHERE id = $1`
	var reg entities.Registry
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&reg.ID, &reg.Code, &reg.Name, &reg.DepartmentID, &reg.Year, &reg.IsActive, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistryNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *registryRepository) GetAll(ctx context.Context) ([]entities.Registry, error) {
	query := `
		SELECT id, code, name, department_id, year, is_active, created_at
		FROM registries
		ORDER BY code, year`
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registries []entities.Registry
	for rows.Next() {
		var reg entities.Registry
		if err := rows.Scan(&reg.ID, &reg.Code, &reg.Name, &reg.DepartmentID, &reg.Year, &reg.IsActive, &reg.CreatedAt); err != nil {
			return nil, err
		}
		registries = append(registries, reg)
	}
	return registries, rows.Err()
}
