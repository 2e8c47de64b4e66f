// Package monthyear turns the operator's free-form "month year" text into
// the abbreviated and full forms used on the invoice.
package monthyear

import (
	"strings"
	"unicode"

	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

var abbrToFull = map[string]string{
	"jan": "january",
	"feb": "february",
	"mar": "march",
	"apr": "april",
	"may": "may",
	"jun": "june",
	"jul": "july",
	"aug": "august",
	"sep": "september",
	"oct": "october",
	"nov": "november",
	"dec": "december",
}

var fullToAbbr = func() map[string]string {
	m := make(map[string]string, len(abbrToFull))
	for abbr, full := range abbrToFull {
		m[full] = abbr
	}
	return m
}()

// Normalize splits input into month and year and returns the abbreviated
// ("jan 2024") and full ("january 2024") forms, both lower case.
//
// Input with whitespace is read as "<month> <year>". Otherwise letters go to
// the month and digits to the year, so "mar2025" and "2025mar" both work.
// Month text that is neither an abbreviation nor a full name is passed
// through unchanged. Empty month or year text is a MissingInput error.
func Normalize(input string) (abbreviated, full string, err error) {
	month, year := split(strings.ToLower(strings.TrimSpace(input)))
	if month == "" || year == "" {
		return "", "", validation.NewMissingInput("month year", "month year", "Please enter month and year")
	}

	abbr, fullName := month, month
	if f, ok := abbrToFull[month]; ok {
		fullName = f
	} else if a, ok := fullToAbbr[month]; ok {
		abbr = a
	}

	return strings.TrimSpace(abbr + " " + year), strings.TrimSpace(fullName + " " + year), nil
}

func split(s string) (month, year string) {
	if strings.ContainsFunc(s, unicode.IsSpace) {
		parts := strings.Fields(s)
		month = parts[0]
		if len(parts) > 1 {
			year = strings.Join(parts[1:], " ")
		}
		return month, year
	}

	var m, y strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			m.WriteRune(r)
		case unicode.IsDigit(r):
			y.WriteRune(r)
		}
	}
	return m.String(), y.String()
}
