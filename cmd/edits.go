package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AryanBlip/Invoice-Automation/internal/editor"
	"github.com/AryanBlip/Invoice-Automation/internal/session"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

// cellEdit is one --edit flag: a 1-based row and column and the new text.
type cellEdit struct {
	Row    int
	Column int
	Value  string
}

// parseEdit reads "ROW:COL=VALUE". The value may be empty or contain "=".
func parseEdit(s string) (cellEdit, error) {
	pos, value, ok := strings.Cut(s, "=")
	if !ok {
		return cellEdit{}, fmt.Errorf("edit %q: expected ROW:COL=VALUE", s)
	}
	rowText, colText, ok := strings.Cut(strings.TrimSpace(pos), ":")
	if !ok {
		return cellEdit{}, fmt.Errorf("edit %q: expected ROW:COL=VALUE", s)
	}

	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil || row < 1 {
		return cellEdit{}, fmt.Errorf("edit %q: row must be a positive number", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colText))
	if err != nil || col < 1 {
		return cellEdit{}, fmt.Errorf("edit %q: column must be a positive number", s)
	}
	return cellEdit{Row: row, Column: col, Value: value}, nil
}

// applyEdits applies every --edit flag in order and stops at the first
// rejected one. Edits of calculated columns are skipped with a notice on w.
func applyEdits(s *session.Session, edits []string, w io.Writer) error {
	for _, raw := range edits {
		e, err := parseEdit(raw)
		if err != nil {
			return validation.NewValidation("edit", "edit", raw, err.Error())
		}
		err = s.Edit(e.Row-1, e.Column-1, e.Value)
		if errors.Is(err, editor.ErrDerivedField) {
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Row %d, column %d: %v; edit ignored.", e.Row, e.Column, err)))
			continue
		}
		if err != nil {
			return fmt.Errorf("row %d, column %d: %w", e.Row, e.Column, err)
		}
	}
	return nil
}
