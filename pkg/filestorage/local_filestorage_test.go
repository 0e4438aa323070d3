package filestorage

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (FileStorageInterface, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := NewLocalFileStorage(dir)
	require.NoError(t, err)
	return storage, dir
}

func TestLocalFileStorage_Save(t *testing.T) {
	storage, baseDir := newTestStorage(t)

	content := "содержимое тестового документа"
	saved, err := storage.Save(strings.NewReader(content), "Договор 2026.pdf", "2026/общий")
	require.NoError(t, err)

	assert.Equal(t, int64(len(content)), saved.SizeBytes)
	assert.True(t, strings.HasSuffix(saved.DiskName, ".pdf"), "дисковое имя должно сохранить расширение")
	assert.True(t, strings.HasPrefix(saved.RelativePath, "2026/"), "относительный путь должен начинаться с поддиректории")

	wantHash := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(wantHash[:]), saved.ContentHash)

	data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(saved.RelativePath)))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	// Временных файлов после успешной записи оставаться не должно.
	entries, err := os.ReadDir(filepath.Dir(filepath.Join(baseDir, filepath.FromSlash(saved.RelativePath))))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".part"), "остался временный файл: %s", e.Name())
	}
}

func TestLocalFileStorage_Rename(t *testing.T) {
	storage, _ := newTestStorage(t)

	saved, err := storage.Save(strings.NewReader("данные"), "письмо.pdf", "2026")
	require.NoError(t, err)

	newPath, err := storage.Rename(saved.RelativePath, "ВХ-0001_письмо.pdf")
	require.NoError(t, err)
	assert.Equal(t, "2026/ВХ-0001_письмо.pdf", newPath)
	assert.True(t, storage.Exists(newPath))
	assert.False(t, storage.Exists(saved.RelativePath))

	// Повторное переименование по старому пути: файла-источника уже нет,
	// но результат достигнут — операция считается успешной.
	againPath, err := storage.Rename(saved.RelativePath, "ВХ-0001_письмо.pdf")
	require.NoError(t, err)
	assert.Equal(t, newPath, againPath)
}

func TestLocalFileStorage_RenameMissing(t *testing.T) {
	storage, _ := newTestStorage(t)

	_, err := storage.Rename("2026/нет-такого.pdf", "ВХ-0002_нет.pdf")
	assert.Error(t, err, "переименование несуществующего файла без результата — ошибка")
}

func TestLocalFileStorage_Delete(t *testing.T) {
	storage, _ := newTestStorage(t)

	saved, err := storage.Save(strings.NewReader("x"), "a.bin", "2026")
	require.NoError(t, err)

	removed, err := storage.Delete(saved.RelativePath)
	require.NoError(t, err)
	assert.True(t, removed)

	// Повторное удаление идемпотентно: не ошибка, просто файла уже нет.
	removed, err = storage.Delete(saved.RelativePath)
	require.NoError(t, err)
	assert.False(t, removed)
}
