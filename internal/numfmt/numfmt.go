// =============================================================================
// Invoice Automation - Number Formatting
// =============================================================================
//
// This package holds the small text helpers every other module leans on:
//   - Thousands grouping for display ("1234567.89" -> "1,234,567.89")
//   - Numeric cleaning of spreadsheet cells ("AED 12,345.60" -> "12345.60")
//   - Customer name cleaning and title casing
//   - Decimal parsing and fixed two-place rendering
//
// Monetary values are carried as shopspring/decimal values everywhere; the
// helpers here are the only place where they are turned into or read from
// operator-facing strings.
//
// =============================================================================

package numfmt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nbsp is the non-breaking space that spreadsheet exports scatter through
// names and amounts.
const nbsp = "\u00a0"

// nonNumeric matches every character that is not a digit, a dot or a minus.
var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// =============================================================================
// GROUPING
// =============================================================================

// GroupThousands inserts "," between groups of three digits in the integer
// part of s. Anything after the first "." is passed through unchanged.
//
// No validation is done: callers clean the string first. A malformed input
// gives a malformed but well-defined result.
func GroupThousands(s string) string {
	integer, fraction, hasFraction := strings.Cut(s, ".")

	grouped := integer
	if n := len(integer); n > 3 {
		var groups []string
		for end := n; end > 0; end -= 3 {
			start := end - 3
			if start < 0 {
				start = 0
			}
			groups = append([]string{integer[start:end]}, groups...)
		}
		grouped = strings.Join(groups, ",")
	}

	if hasFraction {
		return grouped + "." + fraction
	}
	return grouped
}

// =============================================================================
// CLEANING
// =============================================================================

// CleanNumericString strips every character that is not a digit, "." or "-"
// and trims the result.
func CleanNumericString(raw string) string {
	return strings.TrimSpace(nonNumeric.ReplaceAllString(raw, ""))
}

// CleanText removes non-breaking spaces and surrounding whitespace.
func CleanText(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, nbsp, ""))
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest ("JOHN o'neil" -> "John O'neil").
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// =============================================================================
// DECIMALS
// =============================================================================

// ParseDecimal cleans raw with CleanNumericString and parses the result.
// Empty results and strings with more than one sign or decimal point are
// rejected; the error embeds the original value.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := CleanNumericString(raw)
	switch {
	case cleaned == "":
		return decimal.Zero, fmt.Errorf("%q is not a number", raw)
	case strings.Count(cleaned, "-") > 1 || strings.LastIndex(cleaned, "-") > 0:
		return decimal.Zero, fmt.Errorf("%q has a misplaced sign", raw)
	case strings.Count(cleaned, ".") > 1:
		return decimal.Zero, fmt.Errorf("%q has more than one decimal point", raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number: %w", raw, err)
	}
	return d, nil
}

// FormatAmount renders d with exactly two decimals and grouped thousands.
func FormatAmount(d decimal.Decimal) string {
	return GroupThousands(d.StringFixed(2))
}

// FormatPercent renders a slab such as 0.9 as "0.9%".
func FormatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}

// EnsurePercent appends "%" unless s already contains one.
func EnsurePercent(s string) string {
	if strings.Contains(s, "%") {
		return s
	}
	return s + "%"
}
