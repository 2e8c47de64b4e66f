package cmd

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/editor"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	derivedStyle = cellStyle.Foreground(lipgloss.Color("8"))
	numberStyle  = cellStyle.Align(lipgloss.Right)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// renderGrid draws the editable grid. The first column is the 1-based row
// number used by --edit; calculated columns are dimmed.
func renderGrid(v bank.Variant, rows []types.Row) string {
	headers := append([]string{"#"}, editor.Headers(v)...)
	for i := 1; i < len(headers); i++ {
		headers[i] = strconv.Itoa(i) + " " + headers[i]
	}

	data := make([][]string, 0, len(rows))
	for i, row := range rows {
		data = append(data, append([]string{strconv.Itoa(i + 1)}, editor.Display(row, v)...))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return numberStyle
			}
			f, _ := v.FieldAt(col - 1)
			if v.Protected(f) {
				return derivedStyle.Align(lipgloss.Right)
			}
			if f == types.FieldLoanAmount {
				return numberStyle
			}
			return cellStyle
		}).
		String()
}
