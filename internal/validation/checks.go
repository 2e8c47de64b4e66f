package validation

import (
	"fmt"
	"strings"

	"github.com/AryanBlip/Invoice-Automation/internal/types"
)

// RequireInvoiceNumber fails with MissingInput when the header has no
// invoice number.
func RequireInvoiceNumber(op string, h types.Header) error {
	if strings.TrimSpace(h.InvoiceNumber) == "" {
		return NewMissingInput(op, "invoice number", "Please enter the invoice number")
	}
	return nil
}

// RequireMonthYear fails with MissingInput when the header has no month and
// year text.
func RequireMonthYear(op string, h types.Header) error {
	if strings.TrimSpace(h.MonthYear) == "" {
		return NewMissingInput(op, "month year", "Please enter month and year")
	}
	return nil
}

// RequireLabels checks that every label in required appears, ignoring case
// and surrounding space, among have. The missing labels are returned in the
// order of required.
func RequireLabels(have, required []string) []string {
	present := make(map[string]bool, len(have))
	for _, h := range have {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}

	var missing []string
	for _, r := range required {
		if !present[strings.ToLower(strings.TrimSpace(r))] {
			missing = append(missing, r)
		}
	}
	return missing
}

// FormatDiagnostics renders skipped-row diagnostics for display or logging.
func FormatDiagnostics(diags []types.Diagnostic) string {
	if len(diags) == 0 {
		return "No rows skipped."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d row(s) skipped:\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&b, "%d. Row %d: %s\n", i+1, d.Row, d.Reason)
	}
	return b.String()
}
