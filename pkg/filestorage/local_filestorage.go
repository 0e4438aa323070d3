// Файл: pkg/filestorage/local_filestorage.go

package filestorage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "doc-registry/pkg/errors"

	"github.com/google/uuid"
)

// SavedFile — результат записи файла на диск.
type SavedFile struct {
	// Путь относительно базовой директории, в формате с прямыми слэшами.
	RelativePath string
	DiskName     string
	SizeBytes    int64
	ContentHash  string
}

// FileStorageInterface определяет контракт физического хранилища вложений.
// Все пути — относительно базовой директории хранилища.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, relativeDir string) (*SavedFile, error)
	Rename(relativePath string, newDiskName string) (newRelativePath string, err error)
	Delete(relativePath string) (removed bool, err error)
	Exists(relativePath string) bool
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию хранилища: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

// Save записывает файл под случайным именем в указанную поддиректорию.
// Запись идёт во временный файл с последующим атомарным переименованием:
// оборванная загрузка никогда не оставляет частично записанный файл под
// конечным именем. Попутно считается sha256-хеш содержимого.
func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, relativeDir string) (*SavedFile, error) {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	diskName := uuid.New().String() + ext

	fullDirPath := filepath.Join(s.basePath, filepath.FromSlash(relativeDir))
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return nil, apperrors.NewStorageError("mkdir", relativeDir, err)
	}

	tmpPath := filepath.Join(fullDirPath, diskName+".part")
	dst, err := os.Create(tmpPath)
	if err != nil {
		return nil, apperrors.NewStorageError("create", tmpPath, err)
	}

	hasher := sha256.New()
	written, err := io.Copy(dst, io.TeeReader(file, hasher))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, apperrors.NewStorageError("write", tmpPath, err)
	}

	finalPath := filepath.Join(fullDirPath, diskName)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, apperrors.NewStorageError("rename", finalPath, err)
	}

	return &SavedFile{
		RelativePath: filepath.ToSlash(filepath.Join(relativeDir, diskName)),
		DiskName:     diskName,
		SizeBytes:    written,
		ContentHash:  hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Rename переименовывает файл в пределах его директории. Если файл уже
// носит нужное имя — операция успешна без каких-либо действий.
func (s *LocalFileStorage) Rename(relativePath string, newDiskName string) (string, error) {
	relDir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(relativePath)))
	newRelativePath := filepath.ToSlash(filepath.Join(relDir, newDiskName))

	oldFull := filepath.Join(s.basePath, filepath.FromSlash(relativePath))
	newFull := filepath.Join(s.basePath, filepath.FromSlash(newRelativePath))

	if oldFull == newFull {
		return newRelativePath, nil
	}

	if _, err := os.Stat(oldFull); err != nil {
		if os.IsNotExist(err) {
			// Возможно, предыдущая попытка уже переименовала файл.
			if _, statErr := os.Stat(newFull); statErr == nil {
				return newRelativePath, nil
			}
		}
		return "", apperrors.NewStorageError("rename", relativePath, err)
	}

	if err := os.Rename(oldFull, newFull); err != nil {
		return "", apperrors.NewStorageError("rename", relativePath, err)
	}
	return newRelativePath, nil
}

// Delete удаляет файл. Отсутствие файла — не ошибка: запись в БД первична,
// а файл мог быть удалён прошлой неудачной попыткой.
func (s *LocalFileStorage) Delete(relativePath string) (bool, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(relativePath))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return false, nil
	}

	if err := os.Remove(fullPath); err != nil {
		return false, apperrors.NewStorageError("delete", relativePath, err)
	}
	return true, nil
}

func (s *LocalFileStorage) Exists(relativePath string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, filepath.FromSlash(relativePath)))
	return err == nil
}
