// =============================================================================
// Invoice Automation - Spreadsheet Reader
// =============================================================================
//
// This module reads the first sheet of a disbursement spreadsheet into a plain
// grid of strings. Two formats are supported:
//   - .xlsx (and .xlsm) through excelize, reading raw cell values so that
//     amounts arrive unformatted ("100000" rather than "100,000.00")
//   - legacy .xls through extrame/xls, decoded as cp1252
//
// Nothing here interprets the cells. Column discovery, cleaning and the
// incentive math all live in the extractor.
//
// ERROR HANDLING:
//   - A missing file wraps ErrNotFound
//   - A file that cannot be decoded wraps ErrMalformed
//   Callers classify these with errors.Is.
//
// =============================================================================

package sheetreader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when the spreadsheet does not exist.
	ErrNotFound = errors.New("spreadsheet not found")

	// ErrMalformed is returned when the spreadsheet cannot be decoded.
	ErrMalformed = errors.New("spreadsheet is malformed")
)

// legacyCharset is the code page of .xls string records.
const legacyCharset = "cp1252"

// =============================================================================
// MAIN READ FUNCTION
// =============================================================================

// Read returns every row of the first sheet of the spreadsheet at path.
// Rows keep their sheet position: an empty sheet row is an empty slice.
//
// PARAMETERS:
//   - path: The .xlsx, .xlsm or .xls file to read.
//
// RETURNS:
//   - The rows as slices of cell strings; rows may have different lengths.
//   - An error wrapping ErrNotFound or ErrMalformed.
func Read(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat spreadsheet: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return readLegacy(path)
	default:
		return readWorkbook(path)
	}
}

// readWorkbook reads the first sheet of an Office Open XML workbook.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %v", ErrMalformed, err)
	}
	return rows, nil
}

// readLegacy reads the first sheet of a BIFF8 workbook.
//
// The legacy decoder panics on some corrupt inputs; those panics are turned
// into ErrMalformed.
func readLegacy(path string) (rows [][]string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	wb, err := xls.OpenReader(file, legacyCharset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		rows = append(rows, legacyRow(sheet, i))
	}
	return rows, nil
}

// legacyRow returns the cells of row i, or nil when the sheet has no record
// for it.
func legacyRow(sheet *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(i)
	if row == nil {
		return nil
	}
	cells = make([]string, row.LastCol())
	for c := range cells {
		cells[c] = row.Col(c)
	}
	return cells
}

// =============================================================================
// HELPERS
// =============================================================================

// IsRowEmpty checks if a row contains only empty cells.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
