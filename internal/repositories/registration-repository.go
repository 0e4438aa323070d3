package repositories

import (
	"context"
	"errors"
	"fmt"

	"doc-registry/internal/dto"
	"doc-registry/internal/entities"
	apperrors "doc-registry/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const registrationColumns = `id, registry_id, document_type_id, number, year, registered_at,
	sender, recipient_id, subject, is_urgent, confidentiality, status, created_by, created_at`

type RegistrationRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, registration *entities.Registration) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Registration, error)
	UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	List(ctx context.Context, filter dto.RegistrationFilterDTO) ([]entities.Registration, uint64, error)
}

type registrationRepository struct {
	storage *pgxpool.Pool
}

func NewRegistrationRepository(storage *pgxpool.Pool) RegistrationRepositoryInterface {
	return &registrationRepository{storage: storage}
}

func (r *registrationRepository) CreateInTx(ctx context.Context, tx pgx.Tx, reg *entities.Registration) (uint64, error) {
	query := `
		INSERT INTO registrations
		(registry_id, document_type_id, number, year, registered_at, sender,
		 recipient_id, subject, is_urgent, confidentiality, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id uint64
	err := tx.QueryRow(ctx, query,
		reg.RegistryID, reg.DocumentTypeID, reg.Number, reg.Year, reg.RegisteredAt,
		reg.Sender, reg.RecipientID, reg.Subject, reg.IsUrgent, reg.Confidentiality,
		reg.Status, reg.CreatedBy,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Уникальный индекс (registry_id, year, number) — вторая линия
			// обороны после счётчика; конфликт повторяем на уровне сервиса.
			return 0, apperrors.ErrDuplicateNumber
		}
		return 0, err
	}
	return id, nil
}

func (r *registrationRepository) FindByID(ctx context.Context, id uint64) (*entities.Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM registrations WHERE id = $1`, registrationColumns)
	reg, err := scanRegistration(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

// UpdateInTx применяет частичное обновление. Номер записи в списке
// допустимых полей отсутствует намеренно: он неизменяем после создания.
func (r *registrationRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	builder := sq.Update("registrations").PlaceholderFormat(sq.Dollar).Where(sq.Eq{"id": id})
	for column, value := range fields {
		builder = builder.Set(column, value)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("сборка UPDATE-запроса: %w", err)
	}

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

func (r *registrationRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

func (r *registrationRepository) List(ctx context.Context, filter dto.RegistrationFilterDTO) ([]entities.Registration, uint64, error) {
	builder := sq.Select(registrationColumns).
		From("registrations").
		PlaceholderFormat(sq.Dollar).
		OrderBy("registered_at DESC", "id DESC")

	countBuilder := sq.Select("COUNT(*)").From("registrations").PlaceholderFormat(sq.Dollar)

	applyFilter := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.RegistryID > 0 {
			b = b.Where(sq.Eq{"registry_id": filter.RegistryID})
		}
		if filter.Year > 0 {
			b = b.Where(sq.Eq{"year": filter.Year})
		}
		if filter.Status != "" {
			b = b.Where(sq.Eq{"status": filter.Status})
		}
		if filter.Search != "" {
			pattern := fmt.Sprintf("%%%s%%", filter.Search)
			b = b.Where(sq.Or{
				sq.Expr("sender ILIKE ?", pattern),
				sq.Expr("subject ILIKE ?", pattern),
				sq.Expr("number ILIKE ?", pattern),
			})
		}
		return b
	}

	builder = applyFilter(builder)
	countBuilder = applyFilter(countBuilder)

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка SELECT-запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var registrations []entities.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		registrations = append(registrations, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

func scanRegistration(row pgx.Row) (*entities.Registration, error) {
	var reg entities.Registration
	err := row.Scan(
		&reg.ID, &reg.RegistryID, &reg.DocumentTypeID, &reg.Number, &reg.Year,
		&reg.RegisteredAt, &reg.Sender, &reg.RecipientID, &reg.Subject,
		&reg.IsUrgent, &reg.Confidentiality, &reg.Status, &reg.CreatedBy, &reg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
