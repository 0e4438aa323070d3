package utils

import (
	"regexp"
	"strings"
)

// Символы, недопустимые в именах файлов и директорий. Названия отделов и
// категорий приходят от пользователей, поэтому из них же строятся пути
// хранения — подчистка обязательна (защита от обхода директорий).
var hostileCharsRegexp = regexp.MustCompile(`[<>:"/\\|?*]`)

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// SanitizePathComponent превращает произвольное название в безопасный
// компонент пути: враждебные символы заменяются на "_", пробелы схлопываются.
func SanitizePathComponent(name string) string {
	s := hostileCharsRegexp.ReplaceAllString(name, "_")
	s = whitespaceRegexp.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	// "." и ".." как компонент пути недопустимы.
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// SanitizeFileName подчищает имя файла тем же правилом, что и компонент пути.
func SanitizeFileName(name string) string {
	return SanitizePathComponent(name)
}
