package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePathComponent(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "обычное название", input: "Общий отдел", expected: "Общий отдел"},
		{name: "слэши заменяются", input: "Отдел/кадров", expected: "Отдел_кадров"},
		{name: "обход директорий", input: "../../etc", expected: ".._.._etc"},
		{name: "только точки", input: "..", expected: "_"},
		{name: "точка", input: ".", expected: "_"},
		{name: "пустая строка", input: "", expected: "_"},
		{name: "враждебные символы", input: `Приказ <1>: "срочно"?`, expected: "Приказ _1__ _срочно__"},
		{name: "лишние пробелы", input: "  Отдел   кадров  ", expected: "Отдел кадров"},
		{name: "обратный слэш", input: `архив\2026`, expected: "архив_2026"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizePathComponent(tc.input))
		})
	}
}
