// =============================================================================
// Invoice Automation - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - extractor (creates rows)
//   - editor (replaces rows)
//   - assembler (reads rows and the header)
//   - session and cmd (carry everything between the steps)
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDisbursalText is the placeholder shown in the date column until the
// operator types a month and year.
const DefaultDisbursalText = "(Month Year as stated above)"

// DateLayout is the dd/mm/yyyy layout used for the invoice date.
const DateLayout = "02/01/2006"

// =============================================================================
// FIELDS
// =============================================================================

// Field identifies one column of the row model.
type Field int

const (
	FieldDisbursalDate Field = iota
	FieldReference
	FieldCustomerName
	FieldLoanAmount
	FieldSlab
	FieldPayout
	FieldVAT
	FieldIncentive
)

var fieldNames = map[Field]string{
	FieldDisbursalDate: "Disbursal Date",
	FieldReference:     "Reference",
	FieldCustomerName:  "Customer Name",
	FieldLoanAmount:    "Loan Amount",
	FieldSlab:          "Payment Slab",
	FieldPayout:        "Payout",
	FieldVAT:           "VAT",
	FieldIncentive:     "Incentive",
}

// String returns the column title of the field.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "Unknown"
}

// IsText reports whether the field holds free text rather than a number.
func (f Field) IsText() bool {
	return f == FieldDisbursalDate || f == FieldReference || f == FieldCustomerName
}

// =============================================================================
// ROW
// =============================================================================

// Row is one disbursed loan. Rows are values: editing produces a new Row.
//
// Payout, VAT and Incentive are derived from LoanAmount and Slab and are
// stored rounded to two decimals.
type Row struct {
	// DisbursalDate is the free text of the date column.
	DisbursalDate string

	// Reference is the loan reference or type label ("New").
	Reference string

	// CustomerName is cleaned of non-breaking spaces and title-cased.
	CustomerName string

	// LoanAmount is the disbursed amount, never negative.
	LoanAmount decimal.Decimal

	// Slab is the percentage rate, 0.9 meaning 0.9%.
	Slab decimal.Decimal

	// SlabText is the display form of Slab and always ends in "%".
	SlabText string

	// Payout is the pre-VAT part of Incentive (payout variants only).
	Payout decimal.Decimal

	// VAT is the tax part of Incentive (payout variants only).
	VAT decimal.Decimal

	// Incentive is the amount owed for the loan.
	Incentive decimal.Decimal

	// SourceRow is the 1-indexed sheet row the record came from, 0 when
	// unknown.
	SourceRow int
}

// =============================================================================
// INVOICE HEADER
// =============================================================================

// Header holds the operator-entered invoice metadata.
type Header struct {
	// InvoiceNumber is required.
	InvoiceNumber string

	// InvoiceDate is taken verbatim; see Today for the default.
	InvoiceDate string

	// MonthYear is free text such as "jan 2024" or "March2025".
	MonthYear string
}

// Today formats t as dd/mm/yyyy.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Diagnostic records a sheet row that was skipped during extraction.
type Diagnostic struct {
	// Row is the 1-indexed sheet row.
	Row int

	// Reason describes why the row was dropped.
	Reason string
}
