package extractor

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func mustVariant(t *testing.T, code string) bank.Variant {
	t.Helper()
	v, err := bank.Lookup(code)
	require.NoError(t, err)
	return v
}

func TestExtractPositionalIncentive(t *testing.T) {
	sheet := [][]string{
		{"JOHN SMITH", "x", "100000"},
		{},
		{"  jane doe ", "x", "AED 50,000.00"},
		{"bad row", "x", "n/a"},
	}

	result, err := Extract(sheet, mustVariant(t, "ADIB"), quietLogger())
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.Equal(t, "John Smith", first.CustomerName)
	assert.Equal(t, "New", first.Reference)
	assert.Equal(t, "(Month Year as stated above)", first.DisbursalDate)
	assert.Equal(t, "0.9%", first.SlabText)
	assert.Equal(t, "900.00", first.Incentive.StringFixed(2))
	assert.Equal(t, 1, first.SourceRow)

	second := result.Rows[1]
	assert.Equal(t, "Jane Doe", second.CustomerName)
	assert.Equal(t, "50000.00", second.LoanAmount.StringFixed(2))
	assert.Equal(t, "450.00", second.Incentive.StringFixed(2))

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, 4, result.Diagnostics[0].Row)
	assert.Contains(t, result.Diagnostics[0].Reason, "n/a")
}

func TestExtractPositionalPayoutVAT(t *testing.T) {
	sheet := [][]string{
		{"date", "REF-1", "ali hassan", "210,000", "", "", "0.01"},
	}

	result, err := Extract(sheet, mustVariant(t, "DIB"), quietLogger())
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "REF-1", row.Reference)
	assert.Equal(t, "Ali Hassan", row.CustomerName)
	assert.Equal(t, "1.00%", row.SlabText)
	assert.Equal(t, "2100.00", row.Incentive.StringFixed(2))
	assert.Equal(t, "2000.00", row.Payout.StringFixed(2))
	assert.Equal(t, "100.00", row.VAT.StringFixed(2))
}

func TestExtractPositionalTooNarrow(t *testing.T) {
	sheet := [][]string{{"a", "b", "c"}}

	_, err := Extract(sheet, mustVariant(t, "DIB"), quietLogger())
	require.Error(t, err)
	assert.Equal(t, validation.Structural, validation.KindOf(err))
}

func TestExtractNegativeLoanIsSkipped(t *testing.T) {
	sheet := [][]string{
		{"a", "", "-100"},
		{"b", "", "1000"},
	}

	result, err := Extract(sheet, mustVariant(t, "ADIB"), quietLogger())
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "B", result.Rows[0].CustomerName)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Reason, "negative")
}

func TestExtractHeaderSearch(t *testing.T) {
	sheet := [][]string{
		{"Monthly disbursal report"},
		{},
		{"Sr", "Customer Name", "Product", "Contract Amt"},
		{"1", "mary ann", "Auto", "100,000"},
		{"2", "omar", "", "50000"},
	}

	result, err := Extract(sheet, mustVariant(t, "EIB"), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, result.HeaderRow)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, "Mary Ann", result.Rows[0].CustomerName)
	assert.Equal(t, "Auto", result.Rows[0].Reference)
	assert.Equal(t, "900.00", result.Rows[0].Incentive.StringFixed(2))
	assert.Equal(t, 4, result.Rows[0].SourceRow)
	assert.Equal(t, "", result.Rows[1].Reference)
}

func TestExtractHeaderSearchSlabFromSheet(t *testing.T) {
	sheet := [][]string{
		{"customer name", "contract amt", "payout %", "app ref"},
		{"sara", "100000", "0.009", "A-77"},
	}

	result, err := Extract(sheet, mustVariant(t, "ENBD"), quietLogger())
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "A-77", result.Rows[0].Reference)
	assert.Equal(t, "0.90%", result.Rows[0].SlabText)
	assert.Equal(t, "900.00", result.Rows[0].Incentive.StringFixed(2))
}

func TestExtractHeaderSearchFailures(t *testing.T) {
	v := mustVariant(t, "ENBD")

	_, err := Extract([][]string{{"name", "amount"}, {"a", "1"}}, v, quietLogger())
	require.Error(t, err)
	assert.Equal(t, validation.Structural, validation.KindOf(err))

	_, err = Extract([][]string{{"customer name", "contract amt"}, {"a", "1"}}, v, quietLogger())
	require.Error(t, err)
	assert.Equal(t, validation.Structural, validation.KindOf(err))
	assert.Contains(t, err.Error(), "payout %")
}

func TestExtractZeroValidRows(t *testing.T) {
	sheet := [][]string{
		{"a", "", "abc"},
		{"", "", ""},
	}

	result, err := Extract(sheet, mustVariant(t, "ADIB"), quietLogger())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, validation.Structural, validation.KindOf(err))
	assert.Contains(t, err.Error(), "No valid rows")
}

func TestRowsYieldsRowErrors(t *testing.T) {
	sheet := [][]string{
		{"a", "", "abc"},
		{"b", "", "10"},
	}

	seq, err := Rows(sheet, mustVariant(t, "ADIB"))
	require.NoError(t, err)

	var good, bad int
	for row, err := range seq {
		if err != nil {
			var re *RowError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, 1, re.Row)
			bad++
			continue
		}
		assert.Equal(t, "B", row.CustomerName)
		good++
	}
	assert.Equal(t, 1, good)
	assert.Equal(t, 1, bad)
}

func TestRowsStopsEarly(t *testing.T) {
	sheet := [][]string{{"a", "", "1"}, {"b", "", "2"}, {"c", "", "3"}}

	seq, err := Rows(sheet, mustVariant(t, "ADIB"))
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
