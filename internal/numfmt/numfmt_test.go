package numfmt

import (
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0", "0"},
		{"12", "12"},
		{"999", "999"},
		{"1000", "1,000"},
		{"1234567.89", "1,234,567.89"},
		{"123456.5", "123,456.5"},
		{"100000.00", "100,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupThousands(tt.in))
		})
	}
}

func TestGroupThousandsKeepsDigits(t *testing.T) {
	for n := 0; n <= 2_000_000; n += 7919 {
		s := strconv.Itoa(n)
		assert.Equal(t, s, strings.ReplaceAll(GroupThousands(s), ",", ""), s)
	}
	s := "123456789012345678"
	assert.Equal(t, s, strings.ReplaceAll(GroupThousands(s), ",", ""))
}

func TestCleanNumericString(t *testing.T) {
	assert.Equal(t, "12345.60", CleanNumericString("AED 12,345.60"))
	assert.Equal(t, "-5", CleanNumericString(" -5 "))
	assert.Equal(t, "", CleanNumericString("n/a"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "JaneSmith", CleanText("Jane\u00a0Smith\u00a0"))
	assert.Equal(t, "John Smith", CleanText("  John Smith "))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "John Smith", TitleCase("JOHN smith"))
	assert.Equal(t, "Mar", TitleCase("MAR"))
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal("AED 100,000.50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("100000.50")))

	d, err = ParseDecimal("-25")
	require.NoError(t, err)
	assert.True(t, d.IsNegative())

	for _, raw := range []string{"", "abc", "1-2", "--3", "1.2.3"} {
		_, err := ParseDecimal(raw)
		assert.Error(t, err, raw)
	}

	_, err = ParseDecimal("n/a")
	assert.ErrorContains(t, err, `"n/a"`)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,350.00", FormatAmount(decimal.RequireFromString("1350")))
	assert.Equal(t, "64.29", FormatAmount(decimal.RequireFromString("64.285")))
	assert.Equal(t, "0.9%", FormatPercent(decimal.RequireFromString("0.9")))
	assert.Equal(t, "1.5%", EnsurePercent("1.5"))
	assert.Equal(t, "1.5%", EnsurePercent("1.5%"))
}
