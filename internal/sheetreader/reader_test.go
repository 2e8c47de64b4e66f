package sheetreader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Customer Name", "Contract Amt"},
		{"jane", 100000},
		{"omar", 50000.5},
	})

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Customer Name", "Contract Amt"}, rows[0])
	assert.Equal(t, "100000", rows[1][1])
	assert.Equal(t, "50000.5", rows[2][1])
}

func TestReadNotFound(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadMalformed(t *testing.T) {
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(xlsx, []byte("not a workbook"), 0o644))
	_, err := Read(xlsx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)

	xls := filepath.Join(dir, "broken.xls")
	require.NoError(t, os.WriteFile(xls, []byte("not a workbook either"), 0o644))
	_, err = Read(xls)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestIsRowEmpty(t *testing.T) {
	assert.True(t, IsRowEmpty(nil))
	assert.True(t, IsRowEmpty([]string{"", "  "}))
	assert.False(t, IsRowEmpty([]string{"", "x"}))
}
