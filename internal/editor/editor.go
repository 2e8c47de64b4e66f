// Package editor applies operator edits to rows.
//
// Rows are values: ApplyEdit returns a new row and never touches its input.
// Derived fields are recomputed on every edit of the loan amount or slab and
// cannot be edited themselves.
package editor

import (
	"errors"
	"strings"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/numfmt"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

const op = "edit"

// ErrDerivedField is returned, together with the unchanged row, when an
// edit targets a field computed by the bank's formula. It is a notice, not
// a failure.
var ErrDerivedField = errors.New("this field is calculated automatically and cannot be edited")

// ApplyEdit sets the grid column fieldIndex of row to newValue.
//
// Text columns take the value as given (the customer name loses its
// non-breaking spaces and is title-cased). Loan amount and slab edits re-parse both inputs and
// recompute the derived fields; when either does not parse the edit is
// rejected with a Validation error and row is returned unchanged.
func ApplyEdit(row types.Row, v bank.Variant, fieldIndex int, newValue string) (types.Row, error) {
	field, ok := v.FieldAt(fieldIndex)
	if !ok {
		return row, validation.NewValidation(op, "column", newValue, "no such column")
	}
	if v.Protected(field) {
		return row, ErrDerivedField
	}

	updated := row
	switch field {
	case types.FieldDisbursalDate:
		updated.DisbursalDate = newValue
		return updated, nil
	case types.FieldReference:
		updated.Reference = newValue
		return updated, nil
	case types.FieldCustomerName:
		updated.CustomerName = numfmt.TitleCase(numfmt.CleanText(newValue))
		return updated, nil
	}

	loanText := numfmt.FormatAmount(row.LoanAmount)
	slabText := row.SlabText
	if field == types.FieldLoanAmount {
		loanText = newValue
	} else {
		slabText = newValue
	}

	loan, loanErr := numfmt.ParseDecimal(loanText)
	slab, slabErr := numfmt.ParseDecimal(strings.TrimSuffix(strings.TrimSpace(slabText), "%"))
	if loanErr != nil || slabErr != nil || loan.IsNegative() || slab.IsNegative() {
		return row, validation.NewValidation(op, field.String(), newValue,
			"Loan Amount and Payment Slab must be numeric")
	}

	updated.LoanAmount = loan
	updated.Slab = slab
	updated.SlabText = numfmt.EnsurePercent(strings.TrimSpace(slabText))
	return v.Derive(updated), nil
}

// Headers returns the grid column titles of v.
func Headers(v bank.Variant) []string {
	titles := make([]string, len(v.GridColumns))
	for i, f := range v.GridColumns {
		titles[i] = v.ColumnTitle(f)
	}
	return titles
}

// Display renders row as grid cells in the column order of v.
func Display(row types.Row, v bank.Variant) []string {
	cells := make([]string, len(v.GridColumns))
	for i, f := range v.GridColumns {
		cells[i] = Cell(row, f)
	}
	return cells
}

// Cell renders one field of row. Amounts get two decimals and grouped
// thousands.
func Cell(row types.Row, f types.Field) string {
	switch f {
	case types.FieldDisbursalDate:
		return row.DisbursalDate
	case types.FieldReference:
		return row.Reference
	case types.FieldCustomerName:
		return row.CustomerName
	case types.FieldLoanAmount:
		return numfmt.FormatAmount(row.LoanAmount)
	case types.FieldSlab:
		return row.SlabText
	case types.FieldPayout:
		return numfmt.FormatAmount(row.Payout)
	case types.FieldVAT:
		return numfmt.FormatAmount(row.VAT)
	case types.FieldIncentive:
		return numfmt.FormatAmount(row.Incentive)
	}
	return ""
}
