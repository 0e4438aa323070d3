package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRegistrationNumber(t *testing.T) {
	testCases := []struct {
		code     string
		seq      int
		expected string
	}{
		{code: "ВХ", seq: 1, expected: "ВХ-0001"},
		{code: "ВХ", seq: 42, expected: "ВХ-0042"},
		{code: "ИСХ", seq: 9999, expected: "ИСХ-9999"},
		// После 9999 поле просто растёт в ширину.
		{code: "ИСХ", seq: 10000, expected: "ИСХ-10000"},
		{code: "ПР", seq: 123456, expected: "ПР-123456"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatRegistrationNumber(tc.code, tc.seq))
	}
}
