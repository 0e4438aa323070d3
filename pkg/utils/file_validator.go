package utils

import (
	"fmt"
	"io"
	"net/http"
	"slices"

	"doc-registry/config"
)

// ValidateFile проверяет размер и фактический MIME-тип файла по правилам
// контекста загрузки. Тип определяется по содержимому, а не по расширению.
func ValidateFile(size int64, file io.ReadSeeker, contextName string) (mimeType string, err error) {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return "", fmt.Errorf("неизвестный контекст загрузки: %s", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if size > maxSizeBytes {
			return "", fmt.Errorf("размер файла (%d KB) превышает лимит в %d MB", size/1024, rules.MaxSizeMB)
		}
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("не удалось прочитать файл для определения типа")
	}
	mimeType = http.DetectContentType(buffer[:n])

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("не удалось вернуться к началу файла: %w", err)
	}

	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return "", fmt.Errorf("недопустимый тип файла: %s", mimeType)
	}

	return mimeType, nil
}
