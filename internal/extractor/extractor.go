// =============================================================================
// Invoice Automation - Row Extractor
// =============================================================================
//
// This module turns the raw grid of a bank's disbursement export into the
// row model. It is the only place that knows how a bank lays out its sheet.
//
// EXTRACTION PIPELINE:
//   1. Resolve the source columns (positional offsets or header search)
//   2. For every data row:
//      a. Skip blank rows
//      b. Clean and title-case the customer name
//      c. Clean and parse the loan amount (and the slab, when the bank
//         exports one)
//      d. Compute the derived fields with the bank's formula
//   3. Fail the whole batch only when no row survived
//
// ERROR HANDLING:
//   Column resolution failures and an empty result are Structural errors.
//   A row that cannot be parsed is dropped and recorded as a Diagnostic.
//
// =============================================================================

package extractor

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/numfmt"
	"github.com/AryanBlip/Invoice-Automation/internal/sheetreader"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

const op = "load"

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of extracting one sheet.
type Result struct {
	// Rows are the extracted rows in sheet order.
	Rows []types.Row

	// Diagnostics lists the rows that were dropped.
	Diagnostics []types.Diagnostic

	// HeaderRow is the 1-indexed header row for header-search banks, 0
	// otherwise.
	HeaderRow int
}

// RowError is yielded by Rows for a sheet row that could not be converted.
type RowError struct {
	// Row is the 1-indexed sheet row.
	Row int

	// Err is the cause.
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Unwrap returns the cause.
func (e *RowError) Unwrap() error {
	return e.Err
}

// =============================================================================
// COLUMN RESOLUTION
// =============================================================================

// layout is the resolved position of every source column.
type layout struct {
	columns   map[types.Field]int
	firstData int
	headerRow int
}

func resolve(sheet [][]string, v bank.Variant) (layout, error) {
	if v.Discovery == bank.HeaderSearch {
		return resolveByHeader(sheet, v)
	}
	return resolveByPosition(sheet, v)
}

// resolveByPosition checks that at least one row is wide enough to hold
// every configured offset.
func resolveByPosition(sheet [][]string, v bank.Variant) (layout, error) {
	highest := -1
	for _, offset := range v.Offsets {
		highest = max(highest, offset)
	}

	widest := 0
	for _, row := range sheet {
		widest = max(widest, len(row))
	}
	if widest <= highest {
		return layout{}, validation.NewStructural(op,
			"Excel file does not contain the required columns. Verify the file and its columns",
			fmt.Errorf("need %d columns, widest row has %d", highest+1, widest))
	}

	return layout{columns: v.Offsets}, nil
}

// resolveByHeader finds the first row containing the anchor label and maps
// every label to its column.
func resolveByHeader(sheet [][]string, v bank.Variant) (layout, error) {
	for i, row := range sheet {
		labels := make(map[string]int, len(row))
		for c, cell := range row {
			label := strings.ToLower(numfmt.CleanText(cell))
			if _, seen := labels[label]; !seen {
				labels[label] = c
			}
		}
		if _, ok := labels[bank.AnchorLabel()]; !ok {
			continue
		}

		columns := make(map[types.Field]int, len(v.HeaderLabels)+len(v.OptionalLabels))
		var missing []string
		for field, label := range v.HeaderLabels {
			c, ok := labels[label]
			if !ok {
				missing = append(missing, label)
				continue
			}
			columns[field] = c
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return layout{}, validation.NewStructural(op,
				"Excel file does not contain the required columns. Verify the file and its columns",
				fmt.Errorf("header row %d lacks %s", i+1, strings.Join(missing, ", ")))
		}
		for field, label := range v.OptionalLabels {
			if c, ok := labels[label]; ok {
				columns[field] = c
			}
		}

		return layout{columns: columns, firstData: i + 1, headerRow: i + 1}, nil
	}

	return layout{}, validation.NewStructural(op,
		"Excel file does not contain the required columns. Verify the file and its columns",
		fmt.Errorf("no row contains %q", bank.AnchorLabel()))
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Rows resolves the columns of sheet and returns a sequence over its data
// rows. Blank rows are skipped. A row that cannot be converted is yielded
// with a *RowError and a zero Row.
//
// Column resolution happens before Rows returns, so structural errors are
// reported immediately. Each call returns a fresh sequence.
func Rows(sheet [][]string, v bank.Variant) (iter.Seq2[types.Row, error], error) {
	l, err := resolve(sheet, v)
	if err != nil {
		return nil, err
	}

	return func(yield func(types.Row, error) bool) {
		for i := l.firstData; i < len(sheet); i++ {
			raw := sheet[i]
			if sheetreader.IsRowEmpty(raw) {
				continue
			}

			row, err := convert(raw, l, v)
			if err != nil {
				if !yield(types.Row{}, &RowError{Row: i + 1, Err: err}) {
					return
				}
				continue
			}
			row.SourceRow = i + 1
			if !yield(row, nil) {
				return
			}
		}
	}, nil
}

// Extract runs Rows to completion. Dropped rows are logged at debug level
// and recorded as diagnostics. When no row survives, Extract fails with a
// Structural error.
func Extract(sheet [][]string, v bank.Variant, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}

	l, err := resolve(sheet, v)
	if err != nil {
		return nil, err
	}
	seq, err := Rows(sheet, v)
	if err != nil {
		return nil, err
	}

	result := &Result{HeaderRow: l.headerRow}
	for row, err := range seq {
		if err != nil {
			diag := types.Diagnostic{Reason: err.Error()}
			var re *RowError
			if errors.As(err, &re) {
				diag.Row = re.Row
				diag.Reason = re.Err.Error()
			}
			logger.Debug("skipping row", "bank", v.Code, "row", diag.Row, "error", diag.Reason)
			result.Diagnostics = append(result.Diagnostics, diag)
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) == 0 {
		return nil, validation.NewStructural(op, "No valid rows loaded from Excel",
			fmt.Errorf("%d row(s) rejected", len(result.Diagnostics)))
	}

	logger.Debug("extracted rows", "bank", v.Code, "rows", len(result.Rows), "skipped", len(result.Diagnostics))
	return result, nil
}

// convert builds one row from the raw cells.
func convert(raw []string, l layout, v bank.Variant) (types.Row, error) {
	row := types.Row{
		DisbursalDate: types.DefaultDisbursalText,
		Reference:     v.DefaultReference,
		CustomerName:  numfmt.TitleCase(numfmt.CleanText(cell(raw, l, types.FieldCustomerName))),
	}
	if _, ok := l.columns[types.FieldReference]; ok {
		row.Reference = numfmt.CleanText(cell(raw, l, types.FieldReference))
	}

	loanText := cell(raw, l, types.FieldLoanAmount)
	loan, err := numfmt.ParseDecimal(loanText)
	if err != nil {
		return types.Row{}, fmt.Errorf("invalid loan amount: %w", err)
	}
	if loan.IsNegative() {
		return types.Row{}, fmt.Errorf("negative loan amount %q", loanText)
	}
	row.LoanAmount = loan

	row.Slab = v.DefaultSlab
	if v.SlabFromSheet {
		slab, err := numfmt.ParseDecimal(cell(raw, l, types.FieldSlab))
		if err != nil {
			return types.Row{}, fmt.Errorf("invalid payment slab: %w", err)
		}
		row.Slab = scale(slab, v.SlabScale)
	}
	row.SlabText = v.SlabText(row.Slab)

	return v.Derive(row), nil
}

// cell returns the raw value of field, or "" when the row is too short.
func cell(raw []string, l layout, field types.Field) string {
	c, ok := l.columns[field]
	if !ok || c >= len(raw) {
		return ""
	}
	return raw[c]
}

func scale(d, by decimal.Decimal) decimal.Decimal {
	if by.IsZero() {
		return d
	}
	return d.Mul(by)
}
