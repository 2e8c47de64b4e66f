package amountwords

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWords(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1050.50", "One Thousand Fifty and Fifty Fils Only"},
		{"1000.00", "One Thousand"},
		{"1000", "One Thousand"},
		{"7.5", "Seven and Fifty Fils Only"},
		{"1417.50", "One Thousand Four Hundred Seventeen and Fifty Fils Only"},
		{"0.10", "Zero and Ten Fils Only"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToWords(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToWordsRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-5", "1.234", "1,000", ".5"} {
		t.Run(in, func(t *testing.T) {
			_, err := ToWords(in)
			assert.Error(t, err)
		})
	}
}

func TestFromDecimal(t *testing.T) {
	got, err := FromDecimal(decimal.RequireFromString("1349.999"))
	require.NoError(t, err)
	assert.Equal(t, "One Thousand Three Hundred Fifty", got)
}
