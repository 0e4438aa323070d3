package services

import (
	"context"
	"testing"

	"doc-registry/internal/dto"
	"doc-registry/internal/entities"
	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/eventbus"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRegistrationRepo struct {
	registrations map[uint64]*entities.Registration
}

func (f *fakeRegistrationRepo) CreateInTx(ctx context.Context, tx pgx.Tx, r *entities.Registration) (uint64, error) {
	panic("не используется в юнит-тестах")
}

func (f *fakeRegistrationRepo) FindByID(ctx context.Context, id uint64) (*entities.Registration, error) {
	r, ok := f.registrations[id]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRegistrationRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, fields map[string]interface{}) error {
	return nil
}

func (f *fakeRegistrationRepo) DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	delete(f.registrations, id)
	return nil
}

func (f *fakeRegistrationRepo) List(ctx context.Context, filter dto.RegistrationFilterDTO) ([]entities.Registration, uint64, error) {
	return nil, 0, nil
}

// Жёсткий сбой удаления файла должен прервать каскад до того, как дело
// дойдёт до удаления строк: записи продолжают указывать на существующие файлы.
func TestCascadeDelete_AbortsOnStorageFailure(t *testing.T) {
	registrationRepo := &fakeRegistrationRepo{registrations: map[uint64]*entities.Registration{
		1: {ID: 1, Number: "ВХ-0001"},
	}}
	attachmentRepo := newFakeAttachmentRepo()
	attachment := attachmentRepo.add(entities.Attachment{
		OriginalName: "договор.pdf",
		RelativePath: "2026/договор.pdf",
	})
	attachmentRepo.attachments[attachment.ID].RegistrationID.SetValid(1)

	storage := newFakeFileStorage(attachment.RelativePath)
	storage.deleteErr = apperrors.NewStorageError("delete", attachment.RelativePath, assert.AnError)

	coordinator := NewCascadeDeleteCoordinator(
		nil, registrationRepo, attachmentRepo, storage, eventbus.New(zap.NewNop()), zap.NewNop(),
	)

	_, err := coordinator.DeleteWithAttachments(ctxWithUser(7), 1)
	require.Error(t, err)

	_, err = registrationRepo.FindByID(context.Background(), 1)
	assert.NoError(t, err, "регистрационная запись должна пережить прерванный каскад")
	_, err = attachmentRepo.FindByID(context.Background(), attachment.ID)
	assert.NoError(t, err, "строка вложения должна пережить прерванный каскад")
}

func TestCascadeDelete_UnknownRegistration(t *testing.T) {
	coordinator := NewCascadeDeleteCoordinator(
		nil,
		&fakeRegistrationRepo{registrations: map[uint64]*entities.Registration{}},
		newFakeAttachmentRepo(),
		newFakeFileStorage(),
		eventbus.New(zap.NewNop()),
		zap.NewNop(),
	)

	_, err := coordinator.DeleteWithAttachments(ctxWithUser(7), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
