// =============================================================================
// Invoice Automation - Bank Variants
// =============================================================================
//
// Each bank the tool invoices is described by one Variant record. A variant
// says how to find the columns in the bank's export, how to compute the
// incentive, what the editing grid looks like and how the invoice template
// is filled. Shared code never switches on the bank code; it reads the
// record.
//
// ADDING A BANK:
//   Add one Variant to the registry in registry.go. Nothing else changes.
//
// =============================================================================

package bank

import (
	"github.com/shopspring/decimal"

	"github.com/AryanBlip/Invoice-Automation/internal/numfmt"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Discovery is the policy used to locate the source columns in a sheet.
type Discovery int

const (
	// Positional reads fixed 0-indexed column offsets.
	Positional Discovery = iota

	// HeaderSearch finds the header row by its "customer name" cell and
	// resolves columns by label.
	HeaderSearch
)

// String returns the policy name.
func (d Discovery) String() string {
	if d == HeaderSearch {
		return "header-search"
	}
	return "positional"
}

// Formula selects how the derived fields are computed.
type Formula int

const (
	// FormulaIncentive computes incentive = loan * slab / 100.
	FormulaIncentive Formula = iota

	// FormulaPayoutVAT additionally splits the incentive into a payout and
	// a 5% VAT part: payout = incentive / 1.05, vat = incentive / 21.
	FormulaPayoutVAT
)

// TotalsStyle selects the totals vocabulary of the template.
type TotalsStyle int

const (
	// TotalsVATOnTop adds 5% VAT on top of the incentive total.
	TotalsVATOnTop TotalsStyle = iota

	// TotalsVATInside treats the incentive total as VAT-inclusive.
	TotalsVATInside
)

// Alignment is the horizontal alignment of a table cell.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Column is one column of the invoice table.
type Column struct {
	Field types.Field
	Align Alignment
}

// =============================================================================
// VARIANT
// =============================================================================

// Variant describes one bank.
type Variant struct {
	// Code is the short bank code ("ADIB").
	Code string

	// Name is the display name.
	Name string

	// Discovery is the column discovery policy.
	Discovery Discovery

	// Offsets maps fields to 0-indexed columns (Positional only).
	Offsets map[types.Field]int

	// HeaderLabels maps required fields to their lower-case header labels
	// (HeaderSearch only).
	HeaderLabels map[types.Field]string

	// OptionalLabels maps optional fields to header labels (HeaderSearch
	// only). A missing optional column leaves the field at its default.
	OptionalLabels map[types.Field]string

	// ReferenceTitle is the grid title of the reference column.
	ReferenceTitle string

	// DefaultReference fills the reference column when the sheet has none.
	DefaultReference string

	// DefaultSlab is the fixed slab used when SlabFromSheet is false.
	DefaultSlab decimal.Decimal

	// SlabFromSheet reads the slab from the sheet and multiplies it by
	// SlabScale (0.009 in the sheet becomes 0.9).
	SlabFromSheet bool
	SlabScale     decimal.Decimal

	// Formula selects the derived-field computation.
	Formula Formula

	// GridColumns is the column order of the editing grid. A field index
	// is an index into this slice.
	GridColumns []types.Field

	// RequiredTableLabels must all appear in the first row of the
	// template's customer table.
	RequiredTableLabels []string

	// TableLayout is the column order and alignment of the customer table.
	TableLayout []Column

	// Totals selects the totals vocabulary.
	Totals TotalsStyle

	// InvoiceNumberToken is the placeholder for the invoice number.
	InvoiceNumberToken string

	// TemplateFile is the template filename inside the templates directory.
	TemplateFile string

	// OwnsCounter is true for the bank that numbers invoices from the
	// counter file.
	OwnsCounter bool
}

// FieldAt returns the grid field at index i.
func (v Variant) FieldAt(i int) (types.Field, bool) {
	if i < 0 || i >= len(v.GridColumns) {
		return 0, false
	}
	return v.GridColumns[i], true
}

// IndexOf returns the grid index of f, or -1.
func (v Variant) IndexOf(f types.Field) int {
	for i, g := range v.GridColumns {
		if g == f {
			return i
		}
	}
	return -1
}

// ColumnTitle returns the grid title of f.
func (v Variant) ColumnTitle(f types.Field) string {
	switch f {
	case types.FieldReference:
		if v.ReferenceTitle != "" {
			return v.ReferenceTitle
		}
	case types.FieldVAT:
		return "5% VAT"
	}
	return f.String()
}

// Protected reports whether f is derived by the formula and therefore not
// editable.
func (v Variant) Protected(f types.Field) bool {
	switch f {
	case types.FieldIncentive:
		return true
	case types.FieldPayout, types.FieldVAT:
		return v.Formula == FormulaPayoutVAT
	}
	return false
}

// SlabText renders a slab for the grid.
func (v Variant) SlabText(slab decimal.Decimal) string {
	if v.SlabFromSheet {
		return slab.StringFixed(2) + "%"
	}
	return numfmt.FormatPercent(slab)
}

// =============================================================================
// FORMULAS
// =============================================================================

var (
	hundred   = decimal.NewFromInt(100)
	twentyOne = decimal.NewFromInt(21)
	vatFactor = decimal.RequireFromString("1.05")
)

// Derive fills the derived fields of row from its LoanAmount and Slab and
// returns the updated copy. Each result is computed from the unrounded
// incentive and rounded to two decimals on its own, so Payout + VAT can
// differ from Incentive by one fil.
func (v Variant) Derive(row types.Row) types.Row {
	raw := row.LoanAmount.Mul(row.Slab).Div(hundred)
	row.Incentive = raw.Round(2)

	if v.Formula == FormulaPayoutVAT {
		row.VAT = raw.Div(twentyOne).Round(2)
		row.Payout = raw.Div(vatFactor).Round(2)
	} else {
		row.Payout = decimal.Zero
		row.VAT = decimal.Zero
	}
	return row
}
