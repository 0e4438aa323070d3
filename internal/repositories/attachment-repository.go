package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doc-registry/internal/entities"
	apperrors "doc-registry/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const attachmentColumns = `id, original_name, disk_name, relative_path, extension, mime_type,
	size_bytes, content_hash, registration_id, category_id, confidentiality, document_date, uploaded_by, created_at`

type AttachmentRepositoryInterface interface {
	Create(ctx context.Context, attachment *entities.Attachment) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Attachment, error)
	FindAllByRegistrationID(ctx context.Context, registrationID uint64) ([]entities.Attachment, error)
	ListUnassigned(ctx context.Context, limit, offset uint64) ([]entities.Attachment, error)
	BindToRegistrationInTx(ctx context.Context, tx pgx.Tx, ids []uint64, registrationID uint64) (int, error)
	SetDocumentDateInTx(ctx context.Context, tx pgx.Tx, registrationID uint64, attachmentIDs []uint64, documentDate time.Time) error
	UpdateMetadata(ctx context.Context, id uint64, fields map[string]interface{}) error
	UpdateDiskName(ctx context.Context, id uint64, diskName, relativePath string) error
	Delete(ctx context.Context, id uint64) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	FindMismatchedDiskNames(ctx context.Context) ([]MismatchedAttachment, error)
}

// MismatchedAttachment — привязанное вложение, имя файла которого не
// содержит номер своей регистрационной записи.
type MismatchedAttachment struct {
	Attachment entities.Attachment
	Number     string
}

type attachmentRepository struct {
	storage *pgxpool.Pool
}

func NewAttachmentRepository(storage *pgxpool.Pool) AttachmentRepositoryInterface {
	return &attachmentRepository{storage: storage}
}

func (r *attachmentRepository) Create(ctx context.Context, a *entities.Attachment) (uint64, error) {
	query := `
		INSERT INTO attachments
		(original_name, disk_name, relative_path, extension, mime_type, size_bytes,
		 content_hash, registration_id, category_id, confidentiality, document_date, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		a.OriginalName, a.DiskName, a.RelativePath, a.Extension, a.MimeType, a.SizeBytes,
		a.ContentHash, a.RegistrationID, a.CategoryID, a.Confidentiality, a.DocumentDate, a.UploadedBy,
	).Scan(&id)
	return id, err
}

func (r *attachmentRepository) FindByID(ctx context.Context, id uint64) (*entities.Attachment, error) {
	query := fmt.Sprintf(`SELECT %s FROM attachments WHERE id = $1`, attachmentColumns)
	attachment, err := scanAttachment(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttachmentNotFound
		}
		return nil, err
	}
	return attachment, nil
}

func (r *attachmentRepository) FindAllByRegistrationID(ctx context.Context, registrationID uint64) ([]entities.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM attachments
		WHERE registration_id = $1
		ORDER BY created_at, id`, attachmentColumns)
	return r.queryAttachments(ctx, query, registrationID)
}

func (r *attachmentRepository) ListUnassigned(ctx context.Context, limit, offset uint64) ([]entities.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM attachments
		WHERE registration_id IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, attachmentColumns)
	return r.queryAttachments(ctx, query, limit, offset)
}

// BindToRegistrationInTx привязывает только свободные вложения: уже занятые
// другой записью молча пропускаются и никогда не перехватываются.
func (r *attachmentRepository) BindToRegistrationInTx(ctx context.Context, tx pgx.Tx, ids []uint64, registrationID uint64) (int, error) {
	result, err := tx.Exec(ctx, `
		UPDATE attachments
		SET registration_id = $1
		WHERE id = ANY($2) AND registration_id IS NULL`,
		registrationID, ids,
	)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

// SetDocumentDateInTx проставляет дату документа вложениям записи.
// Пустой список attachmentIDs означает все вложения записи; непустой —
// только перечисленные. Ограничение по registration_id не даёт задеть
// чужие вложения.
func (r *attachmentRepository) SetDocumentDateInTx(ctx context.Context, tx pgx.Tx, registrationID uint64, attachmentIDs []uint64, documentDate time.Time) error {
	builder := sq.Update("attachments").
		PlaceholderFormat(sq.Dollar).
		Set("document_date", documentDate).
		Where(sq.Eq{"registration_id": registrationID})
	if len(attachmentIDs) > 0 {
		builder = builder.Where(sq.Eq{"id": attachmentIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("сборка UPDATE-запроса: %w", err)
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}

func (r *attachmentRepository) UpdateMetadata(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	builder := sq.Update("attachments").PlaceholderFormat(sq.Dollar).Where(sq.Eq{"id": id})
	for column, value := range fields {
		builder = builder.Set(column, value)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("сборка UPDATE-запроса: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAttachmentNotFound
	}
	return nil
}

func (r *attachmentRepository) UpdateDiskName(ctx context.Context, id uint64, diskName, relativePath string) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE attachments SET disk_name = $1, relative_path = $2 WHERE id = $3`,
		diskName, relativePath, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAttachmentNotFound
	}
	return nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id uint64) error {
	return r.deleteOn(ctx, r.storage, id)
}

func (r *attachmentRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	return r.deleteOn(ctx, tx, id)
}

func (r *attachmentRepository) deleteOn(ctx context.Context, q querier, id uint64) error {
	result, err := q.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAttachmentNotFound
	}
	return nil
}

// FindMismatchedDiskNames отбирает привязанные вложения, имя файла которых
// не начинается с номера записи. Используется сверкой имён (reconcile).
func (r *attachmentRepository) FindMismatchedDiskNames(ctx context.Context) ([]MismatchedAttachment, error) {
	builder := sq.Select(
		"a.id", "a.original_name", "a.disk_name", "a.relative_path", "a.extension",
		"a.mime_type", "a.size_bytes", "a.content_hash", "a.registration_id",
		"a.category_id", "a.confidentiality", "a.document_date", "a.uploaded_by", "a.created_at",
		"r.number",
	).
		From("attachments a").
		Join("registrations r ON r.id = a.registration_id").
		Where(sq.Expr(`a.disk_name NOT LIKE r.number || '\_%'`)).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("сборка запроса сверки: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mismatched []MismatchedAttachment
	for rows.Next() {
		var m MismatchedAttachment
		a := &m.Attachment
		if err := rows.Scan(
			&a.ID, &a.OriginalName, &a.DiskName, &a.RelativePath, &a.Extension,
			&a.MimeType, &a.SizeBytes, &a.ContentHash, &a.RegistrationID,
			&a.CategoryID, &a.Confidentiality, &a.DocumentDate, &a.UploadedBy, &a.CreatedAt,
			&m.Number,
		); err != nil {
			return nil, err
		}
		mismatched = append(mismatched, m)
	}
	return mismatched, rows.Err()
}

func (r *attachmentRepository) queryAttachments(ctx context.Context, query string, args ...any) ([]entities.Attachment, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []entities.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, *attachment)
	}
	return attachments, rows.Err()
}

func scanAttachment(row pgx.Row) (*entities.Attachment, error) {
	var a entities.Attachment
	err := row.Scan(
		&a.ID, &a.OriginalName, &a.DiskName, &a.RelativePath, &a.Extension,
		&a.MimeType, &a.SizeBytes, &a.ContentHash, &a.RegistrationID,
		&a.CategoryID, &a.Confidentiality, &a.DocumentDate, &a.UploadedBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
