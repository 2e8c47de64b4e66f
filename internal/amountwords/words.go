// Package amountwords spells out currency amounts for the "amount in words"
// line of an invoice: 1050.50 becomes
// "One Thousand Fifty and Fifty Fils Only".
package amountwords

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"

	"github.com/AryanBlip/Invoice-Automation/internal/numfmt"
)

// MinorUnit is the label for hundredths of the currency.
const MinorUnit = "Fils"

// ToWords converts a non-negative amount with at most two fractional digits
// into title-cased English words. Whole amounts (no fraction, or ".00") give
// only the integer words; otherwise the hundredths are appended as
// "and <words> Fils Only".
func ToWords(amount string) (string, error) {
	raw := strings.TrimSpace(amount)
	integer, fraction, _ := strings.Cut(raw, ".")

	if integer == "" || !isDigits(integer) || (fraction != "" && !isDigits(fraction)) {
		return "", fmt.Errorf("cannot convert %q to words: not a non-negative number", amount)
	}
	if len(fraction) > 2 {
		return "", fmt.Errorf("cannot convert %q to words: more than two fractional digits", amount)
	}

	whole, err := strconv.ParseInt(integer, 10, 0)
	if err != nil {
		return "", fmt.Errorf("cannot convert %q to words: %w", amount, err)
	}
	integerWords := numfmt.TitleCase(num2words.Convert(int(whole)))

	// A single digit after the point counts tens of fils.
	if len(fraction) == 1 {
		fraction += "0"
	}
	if fraction == "" || fraction == "00" {
		return integerWords, nil
	}

	hundredths, _ := strconv.Atoi(fraction)
	fractionWords := num2words.Convert(hundredths)

	return integerWords + " and " + numfmt.TitleCase(fractionWords+" "+MinorUnit+" Only"), nil
}

// FromDecimal rounds d to two places and converts it with ToWords.
func FromDecimal(d decimal.Decimal) (string, error) {
	return ToWords(d.StringFixed(2))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
