// Файл: internal/repositories/dictionary-repository.go
//
// Мелкие справочники: отделы, типы документов, получатели.
package repositories

import (
	"context"
	"errors"

	"doc-registry/internal/entities"
	apperrors "doc-registry/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepartmentRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Department, error)
}

type departmentRepository struct {
	storage *pgxpool.Pool
}

func NewDepartmentRepository(storage *pgxpool.Pool) DepartmentRepositoryInterface {
	return &departmentRepository{storage: storage}
}

func (r *departmentRepository) FindByID(ctx context.Context, id uint64) (*entities.Department, error) {
	var department entities.Department
	err := r.storage.QueryRow(ctx, `SELECT id, name FROM departments WHERE id = $1`, id).
		Scan(&department.ID, &department.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &department, nil
}

type DocumentTypeRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.DocumentType, error)
}

type documentTypeRepository struct {
	storage *pgxpool.Pool
}

func NewDocumentTypeRepository(storage *pgxpool.Pool) DocumentTypeRepositoryInterface {
	return &documentTypeRepository{storage: storage}
}

func (r *documentTypeRepository) FindByID(ctx context.Context, id uint64) (*entities.DocumentType, error) {
	var docType entities.DocumentType
	err := r.storage.QueryRow(ctx, `SELECT id, registry_id, name FROM document_types WHERE id = $1`, id).
		Scan(&docType.ID, &docType.RegistryID, &docType.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDocumentTypeNotFound
		}
		return nil, err
	}
	return &docType, nil
}

type RecipientRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Recipient, error)
}

type recipientRepository struct {
	storage *pgxpool.Pool
}

func NewRecipientRepository(storage *pgxpool.Pool) RecipientRepositoryInterface {
	return &recipientRepository{storage: storage}
}

func (r *recipientRepository) FindByID(ctx context.Context, id uint64) (*entities.Recipient, error) {
	var recipient entities.Recipient
	err := r.storage.QueryRow(ctx, `SELECT id, name, department_id FROM recipients WHERE id = $1`, id).
		Scan(&recipient.ID, &recipient.Name, &recipient.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecipientNotFound
		}
		return nil, err
	}
	return &recipient, nil
}
