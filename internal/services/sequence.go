// Файл: internal/services/sequence.go
package services

import (
	"context"
	"fmt"

	"doc-registry/internal/repositories"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SequenceAllocatorInterface выдаёт следующий регистрационный номер для
// пары (журнал, год). Выдача не имеет собственных побочных эффектов:
// вызывающий обязан закоммитить регистрационную запись в той же транзакции.
type SequenceAllocatorInterface interface {
	NextInTx(ctx context.Context, tx pgx.Tx, registryID uint64, year int) (string, error)
}

type SequenceService struct {
	registryRepo repositories.RegistryRepositoryInterface
	sequenceRepo repositories.SequenceRepositoryInterface
	logger       *zap.Logger
}

func NewSequenceService(
	registryRepo repositories.RegistryRepositoryInterface,
	sequenceRepo repositories.SequenceRepositoryInterface,
	logger *zap.Logger,
) SequenceAllocatorInterface {
	return &SequenceService{
		registryRepo: registryRepo,
		sequenceRepo: sequenceRepo,
		logger:       logger,
	}
}

func (s *SequenceService) NextInTx(ctx context.Context, tx pgx.Tx, registryID uint64, year int) (string, error) {
	registry, err := s.registryRepo.FindByID(ctx, registryID)
	if err != nil {
		return "", err
	}

	seq, err := s.sequenceRepo.NextInTx(ctx, tx, registryID, year)
	if err != nil {
		s.logger.Error("не удалось выдать порядковый номер",
			zap.Uint64("registryID", registryID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return "", err
	}

	return FormatRegistrationNumber(registry.Code, seq), nil
}

// FormatRegistrationNumber собирает номер вида "AAP-0001". Выравнивание —
// до четырёх знаков; после 9999 номер просто становится длиннее,
// уникальность обеспечивает счётчик, а не ширина поля.
func FormatRegistrationNumber(code string, seq int) string {
	return fmt.Sprintf("%s-%04d", code, seq)
}
