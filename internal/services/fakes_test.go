package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"doc-registry/internal/entities"
	"doc-registry/internal/repositories"
	apperrors "doc-registry/pkg/errors"
	"doc-registry/pkg/filestorage"

	"github.com/jackc/pgx/v5"
)

// fakeAttachmentRepo — хранилище строк вложений в памяти. Транзакционные
// методы игнорируют tx: в юнит-тестах транзакций нет.
type fakeAttachmentRepo struct {
	attachments map[uint64]*entities.Attachment
	nextID      uint64

	updateMetadataErr error
	lastFields        map[string]interface{}
	mismatched        []repositories.MismatchedAttachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[uint64]*entities.Attachment), nextID: 1}
}

func (f *fakeAttachmentRepo) add(a entities.Attachment) *entities.Attachment {
	a.ID = f.nextID
	f.nextID++
	stored := a
	f.attachments[stored.ID] = &stored
	return &stored
}

func (f *fakeAttachmentRepo) Create(ctx context.Context, a *entities.Attachment) (uint64, error) {
	stored := f.add(*a)
	return stored.ID, nil
}

func (f *fakeAttachmentRepo) FindByID(ctx context.Context, id uint64) (*entities.Attachment, error) {
	a, ok := f.attachments[id]
	if !ok {
		return nil, apperrors.ErrAttachmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAttachmentRepo) FindAllByRegistrationID(ctx context.Context, registrationID uint64) ([]entities.Attachment, error) {
	var result []entities.Attachment
	for _, a := range f.attachments {
		if a.RegistrationID.Valid && a.RegistrationID.Uint64 == registrationID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeAttachmentRepo) ListUnassigned(ctx context.Context, limit, offset uint64) ([]entities.Attachment, error) {
	var result []entities.Attachment
	for _, a := range f.attachments {
		if !a.RegistrationID.Valid {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeAttachmentRepo) BindToRegistrationInTx(ctx context.Context, tx pgx.Tx, ids []uint64, registrationID uint64) (int, error) {
	bound := 0
	for _, id := range ids {
		a, ok := f.attachments[id]
		if !ok || a.RegistrationID.Valid {
			continue
		}
		a.RegistrationID.SetValid(registrationID)
		bound++
	}
	return bound, nil
}

func (f *fakeAttachmentRepo) SetDocumentDateInTx(ctx context.Context, tx pgx.Tx, registrationID uint64, attachmentIDs []uint64, documentDate time.Time) error {
	listed := func(id uint64) bool {
		if len(attachmentIDs) == 0 {
			return true
		}
		for _, wanted := range attachmentIDs {
			if wanted == id {
				return true
			}
		}
		return false
	}
	for _, a := range f.attachments {
		if a.RegistrationID.Valid && a.RegistrationID.Uint64 == registrationID && listed(a.ID) {
			a.DocumentDate.SetValid(documentDate)
		}
	}
	return nil
}

func (f *fakeAttachmentRepo) UpdateMetadata(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if f.updateMetadataErr != nil {
		return f.updateMetadataErr
	}
	f.lastFields = fields
	return nil
}

func (f *fakeAttachmentRepo) UpdateDiskName(ctx context.Context, id uint64, diskName, relativePath string) error {
	a, ok := f.attachments[id]
	if !ok {
		return apperrors.ErrAttachmentNotFound
	}
	a.DiskName = diskName
	a.RelativePath = relativePath
	return nil
}

func (f *fakeAttachmentRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.attachments[id]; !ok {
		return apperrors.ErrAttachmentNotFound
	}
	delete(f.attachments, id)
	return nil
}

func (f *fakeAttachmentRepo) DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	return f.Delete(ctx, id)
}

func (f *fakeAttachmentRepo) FindMismatchedDiskNames(ctx context.Context) ([]repositories.MismatchedAttachment, error) {
	return f.mismatched, nil
}

// fakeFileStorage имитирует диск набором путей.
type fakeFileStorage struct {
	files     map[string]bool
	renameErr error
	deleteErr error
}

func newFakeFileStorage(paths ...string) *fakeFileStorage {
	files := make(map[string]bool)
	for _, p := range paths {
		files[p] = true
	}
	return &fakeFileStorage{files: files}
}

func (f *fakeFileStorage) Save(file io.Reader, originalFileName, relativeDir string) (*filestorage.SavedFile, error) {
	panic("не используется в юнит-тестах")
}

func (f *fakeFileStorage) Rename(relativePath, newDiskName string) (string, error) {
	if f.renameErr != nil {
		return "", f.renameErr
	}
	newPath := path.Join(path.Dir(relativePath), newDiskName)
	if !f.files[relativePath] {
		if f.files[newPath] {
			return newPath, nil
		}
		return "", apperrors.NewStorageError("rename", relativePath, fmt.Errorf("файл не найден"))
	}
	delete(f.files, relativePath)
	f.files[newPath] = true
	return newPath, nil
}

func (f *fakeFileStorage) Delete(relativePath string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if !f.files[relativePath] {
		return false, nil
	}
	delete(f.files, relativePath)
	return true, nil
}

func (f *fakeFileStorage) Exists(relativePath string) bool {
	return f.files[relativePath]
}

// fakeCategoryLookup — справочник категорий в памяти.
type fakeCategoryLookup struct {
	categories map[uint64]*entities.Category
}

func (f *fakeCategoryLookup) FindByID(ctx context.Context, id uint64) (*entities.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryLookup) GetDefaultConfidentiality(ctx context.Context, categoryID uint64) (*string, error) {
	c, err := f.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !c.DefaultConfidentiality.Valid {
		return nil, nil
	}
	v := c.DefaultConfidentiality.String
	return &v, nil
}
