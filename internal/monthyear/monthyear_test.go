package monthyear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		abbr  string
		full  string
	}{
		{"january 2024", "jan 2024", "january 2024"},
		{"mar2025", "mar 2025", "march 2025"},
		{"  Feb   2023 ", "feb 2023", "february 2023"},
		{"JUNE 2022", "jun 2022", "june 2022"},
		{"2021dec", "dec 2021", "december 2021"},
		{"sept-2024", "sept 2024", "sept 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			abbr, full, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.abbr, abbr)
			assert.Equal(t, tt.full, full)
		})
	}
}

func TestNormalizeMissingParts(t *testing.T) {
	for _, input := range []string{"", "   ", "january", "2024", "--"} {
		_, _, err := Normalize(input)
		require.Error(t, err, input)
		assert.Equal(t, validation.MissingInput, validation.KindOf(err), input)
	}
}
