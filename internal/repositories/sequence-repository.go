// Файл: internal/repositories/sequence-repository.go
package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"

	apperrors "doc-registry/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SequenceRepositoryInterface выдаёт очередной порядковый номер в рамках
// пары (журнал, год). Выдача происходит строго внутри транзакции вызывающего:
// счётчик и регистрационная запись коммитятся вместе, поэтому два
// конкурентных создания никогда не получат один номер, а откатившаяся
// попытка не оставляет номер "занятым".
type SequenceRepositoryInterface interface {
	NextInTx(ctx context.Context, tx pgx.Tx, registryID uint64, year int) (int, error)
	EnsureAtLeastInTx(ctx context.Context, tx pgx.Tx, registryID uint64, year int, seq int) error
}

type sequenceRepository struct{}

func NewSequenceRepository() SequenceRepositoryInterface {
	return &sequenceRepository{}
}

// NextInTx инкрементирует строку-счётчик атомарным UPDATE .. RETURNING
// (строка при этом блокируется до конца транзакции). Если счётчика ещё нет,
// он засевается из максимального существующего номера журнала.
func (r *sequenceRepository) NextInTx(ctx context.Context, tx pgx.Tx, registryID uint64, year int) (int, error) {
	var next int
	err := tx.QueryRow(ctx, `
		UPDATE registry_counters
		SET last_number = last_number + 1
		WHERE registry_id = $1 AND year = $2
		RETURNING last_number`,
		registryID, year,
	).Scan(&next)
	if err == nil {
		return next, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	seed, err := r.seedFromExisting(ctx, tx, registryID, year)
	if err != nil {
		return 0, err
	}

	next = seed + 1
	_, err = tx.Exec(ctx, `
		INSERT INTO registry_counters (registry_id, year, last_number)
		VALUES ($1, $2, $3)`,
		registryID, year, next,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Счётчик засеяла параллельная транзакция — повтор на уровне сервиса.
			return 0, apperrors.ErrDuplicateNumber
		}
		return 0, err
	}
	return next, nil
}

// seedFromExisting возвращает максимальный уже выданный порядковый номер
// (0, если журнал пуст). Неразбираемый номер — фатальная ошибка: угадывание
// привело бы к повторной выдаче.
func (r *sequenceRepository) seedFromExisting(ctx context.Context, tx pgx.Tx, registryID uint64, year int) (int, error) {
	// Сортировка "длина, затем лексика" даёт числовой максимум для номеров
	// с общим префиксом и нулевым выравниванием.
	var number string
	err := tx.QueryRow(ctx, `
		SELECT number
		FROM registrations
		WHERE registry_id = $1 AND year = $2
		ORDER BY length(number) DESC, number DESC
		LIMIT 1`,
		registryID, year,
	).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	seq, err := ParseSequenceSuffix(number)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// EnsureAtLeastInTx поднимает счётчик как минимум до seq. Используется при
// импорте записей с явно заданными номерами.
func (r *sequenceRepository) EnsureAtLeastInTx(ctx context.Context, tx pgx.Tx, registryID uint64, year int, seq int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO registry_counters (registry_id, year, last_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (registry_id, year)
		DO UPDATE SET last_number = GREATEST(registry_counters.last_number, EXCLUDED.last_number)`,
		registryID, year, seq,
	)
	return err
}

// ParseSequenceSuffix извлекает порядковый номер после последнего дефиса.
func ParseSequenceSuffix(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, &apperrors.NumberParseError{Raw: number, Reason: "отсутствует числовой суффикс"}
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil || seq < 0 {
		return 0, &apperrors.NumberParseError{Raw: number, Reason: "суффикс не является неотрицательным числом"}
	}
	return seq, nil
}
