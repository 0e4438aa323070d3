package repositories

import (
	"context"
	"errors"

	"doc-registry/internal/entities"
	apperrors "doc-registry/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Category, error)
	GetAll(ctx context.Context) ([]entities.Category, error)
}

type categoryRepository struct {
	storage *pgxpool.Pool
}

func NewCategoryRepository(storage *pgxpool.Pool) CategoryRepositoryInterface {
	return &categoryRepository{storage: storage}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint64) (*entities.Category, error) {
	query := `SELECT id, name, default_confidentiality FROM categories WHERE id = $1`
	var category entities.Category
	err := r.storage.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.DefaultConfidentiality)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]entities.Category, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, default_confidentiality FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []entities.Category
	for rows.Next() {
		var category entities.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.DefaultConfidentiality); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
