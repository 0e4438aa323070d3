package repositories

import (
	"errors"
	"testing"

	apperrors "doc-registry/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSequenceSuffix(t *testing.T) {
	t.Run("валидные номера", func(t *testing.T) {
		testCases := []struct {
			number   string
			expected int
		}{
			{number: "ВХ-0001", expected: 1},
			{number: "ВХ-0042", expected: 42},
			{number: "ИСХ-10000", expected: 10000},
			// Код журнала сам может содержать дефис: берём суффикс после последнего.
			{number: "ВХ-АРХ-0007", expected: 7},
		}
		for _, tc := range testCases {
			seq, err := ParseSequenceSuffix(tc.number)
			require.NoError(t, err, tc.number)
			assert.Equal(t, tc.expected, seq, tc.number)
		}
	})

	t.Run("неразбираемые номера", func(t *testing.T) {
		for _, number := range []string{"", "ВХ", "ВХ-", "ВХ-abc", "ВХ--7x"} {
			_, err := ParseSequenceSuffix(number)
			require.Error(t, err, number)

			var parseErr *apperrors.NumberParseError
			assert.True(t, errors.As(err, &parseErr), "ожидалась NumberParseError для %q", number)
		}
	})
}
