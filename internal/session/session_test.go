package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/config"
	"github.com/AryanBlip/Invoice-Automation/internal/docx"
	"github.com/AryanBlip/Invoice-Automation/internal/docx/docxtest"
	"github.com/AryanBlip/Invoice-Automation/internal/editor"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

type env struct {
	dir string
	cfg *config.MainConfig
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	require.NoError(t, os.MkdirAll(templates, 0o755))

	return env{
		dir: dir,
		cfg: &config.MainConfig{
			TemplatesDir:     templates,
			ConfigsDir:       filepath.Join(dir, "configs"),
			OutputDir:        filepath.Join(dir, "output"),
			WorkingDocument:  filepath.Join(dir, "filled.docx"),
			CounterFile:      filepath.Join(dir, "invoice_counter.txt"),
			ConverterCommand: "soffice",
			LogLevel:         "info",
		},
	}
}

func (e env) template(t *testing.T, v bank.Variant, tokens ...string) {
	t.Helper()
	var before [][]string
	for _, tok := range tokens {
		before = append(before, []string{tok})
	}
	docxtest.Write(t, e.cfg.TemplatesDir, v.TemplateFile, docxtest.Template{
		Before: before,
		Table:  [][]string{{"Disbursal Date", "Type", "Customer Name", "Loan Amount", "Payment Slab", "Incentive"}},
		After:  [][]string{{"Total: [VAT&incent]"}, {"[AmtinWords]"}},
	})
}

func (e env) workbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(e.dir, "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newSession(t *testing.T, e env, code string) *Session {
	t.Helper()
	v, err := bank.Lookup(code)
	require.NoError(t, err)
	s := New(e.cfg, v, config.DefaultProfile(v), log.New(io.Discard))
	s.Now = func() time.Time { return time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestLoadEditCreate(t *testing.T) {
	e := newEnv(t)
	s := newSession(t, e, "ADIB")
	e.template(t, s.Variant(), "Invoice [invoice number] on [date today]", "[bank name]")

	input := e.workbook(t, [][]any{
		{"JANE DOE", "x", 100000},
		{"bad row", "x", "n/a"},
		{"omar ali", "x", 50000},
	})
	require.NoError(t, s.Load(input))
	require.Len(t, s.Rows(), 2)
	require.Len(t, s.Diagnostics(), 1)
	assert.Empty(t, s.SuggestedInvoiceNumber())

	require.NoError(t, s.Edit(1, 3, "200000"))
	assert.Equal(t, "1800.00", s.Rows()[1].Incentive.StringFixed(2))

	result, err := s.CreateInvoice(context.Background(), types.Header{
		InvoiceNumber: "INV-9",
		MonthYear:     "mar 2025",
	}, "invoice.docx")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(e.cfg.OutputDir, "invoice.docx"), result.OutputFile)
	assert.Equal(t, "INV-9", result.InvoiceNumber)
	assert.Equal(t, "2700.00", result.Totals.Incentive.StringFixed(2))
	assert.Equal(t, "2835.00", result.Totals.Payable.StringFixed(2))
	assert.Empty(t, result.Unresolved)
	assert.Zero(t, result.NextInvoiceNumber)
	assert.Equal(t, ProcessingStats{RowsLoaded: 2, RowsSkipped: 1, RowsEdited: 1}, result.Stats)
	assert.Equal(t, s.ID(), result.RunID)

	doc, err := docx.Open(result.OutputFile)
	require.NoError(t, err)
	text := doc.Text()
	assert.Contains(t, text, "Invoice INV-9 on 04/03/2025")
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Total: 2,835.00")

	require.NotEmpty(t, result.DiagnosticsLog)
	assert.FileExists(t, result.DiagnosticsLog)
	assert.Equal(t, e.cfg.OutputDir, filepath.Dir(result.DiagnosticsLog))
}

func TestLoadFailures(t *testing.T) {
	e := newEnv(t)
	s := newSession(t, e, "ADIB")

	err := s.Load(filepath.Join(e.dir, "missing.xlsx"))
	require.Error(t, err)
	assert.Equal(t, validation.Structural, validation.KindOf(err))
	assert.Contains(t, err.Error(), "Excel file not found at: ")

	broken := filepath.Join(e.dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0o644))
	err = s.Load(broken)
	assert.Equal(t, validation.Structural, validation.KindOf(err))

	empty := e.workbook(t, [][]any{{"only", "x", "n/a"}})
	err = s.Load(empty)
	assert.Equal(t, validation.Structural, validation.KindOf(err))
	assert.Empty(t, s.Rows())
}

func TestEditRejections(t *testing.T) {
	e := newEnv(t)
	s := newSession(t, e, "ADIB")
	require.NoError(t, s.Load(e.workbook(t, [][]any{{"jane", "x", 1000}})))

	assert.ErrorIs(t, s.Edit(0, 5, "1"), editor.ErrDerivedField)
	assert.True(t, validation.Is(s.Edit(3, 2, "x"), validation.Validation))
	assert.True(t, validation.Is(s.Edit(0, 3, "abc"), validation.Validation))
	assert.Equal(t, "9.00", s.Rows()[0].Incentive.StringFixed(2))
}

func TestCreateInvoiceNeedsRowsAndTemplate(t *testing.T) {
	e := newEnv(t)
	s := newSession(t, e, "ADIB")

	_, err := s.CreateInvoice(context.Background(), types.Header{InvoiceNumber: "1", MonthYear: "mar 2025"}, "x.docx")
	assert.Equal(t, validation.Structural, validation.KindOf(err))

	require.NoError(t, s.Load(e.workbook(t, [][]any{{"jane", "x", 1000}})))
	_, err = s.CreateInvoice(context.Background(), types.Header{InvoiceNumber: "1", MonthYear: "mar 2025"}, "x.docx")
	assert.Equal(t, validation.Structural, validation.KindOf(err))
	assert.Contains(t, err.Error(), "Template not found")

	_, err = s.Export(context.Background(), "x.docx")
	assert.Equal(t, validation.Structural, validation.KindOf(err))
}

func TestCounterIncrementsOncePerInvoice(t *testing.T) {
	e := newEnv(t)
	s := newSession(t, e, "EIB")
	e.template(t, s.Variant(), "No. [invoice no]")

	input := e.workbook(t, [][]any{
		{"Report"},
		{"Customer Name", "Contract Amt", "Product"},
		{"jane doe", 100000, "Auto"},
	})
	require.NoError(t, s.Load(input))
	assert.Equal(t, "001/2025", s.SuggestedInvoiceNumber())

	h := types.Header{InvoiceNumber: s.SuggestedInvoiceNumber(), MonthYear: "march 2025"}
	result, err := s.CreateInvoice(context.Background(), h, "a.docx")
	require.NoError(t, err)
	assert.Equal(t, 2, result.NextInvoiceNumber)
	assert.Empty(t, result.Unresolved)

	// Exporting the same invoice again does not advance the counter.
	again, err := s.Export(context.Background(), "b.docx")
	require.NoError(t, err)
	assert.Zero(t, again.NextInvoiceNumber)

	data, err := os.ReadFile(e.cfg.CounterFile)
	require.NoError(t, err)
	assert.Equal(t, "Next Invoice Number : 2\n", string(data))

	require.NoError(t, s.Load(input))
	assert.Equal(t, "002/2025", s.SuggestedInvoiceNumber())
}
