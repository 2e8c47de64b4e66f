// =============================================================================
// Invoice Automation - Invoice Assembler
// =============================================================================
//
// This module fills a bank's invoice template with the final rows and the
// operator's header fields.
//
// ASSEMBLY PIPELINE:
//   1. Check the preconditions, in order:
//      a. invoice number present            (MissingInput)
//      b. month/year present and parseable  (MissingInput)
//      c. at least one row                  (Structural)
//      d. a customer table in the template  (Structural)
//   2. Copy the template; the original is never modified
//   3. Append one table row per record, accumulating the totals
//   4. Set the table text to 10pt
//   5. Build the replacement table and substitute it over the body
//      paragraphs, then every table cell, then headers and footers
//   6. Report any bracketed token left in the document
//
// ALL OR NOTHING:
//   A row that cannot be written aborts the run and the copy is discarded.
//
// =============================================================================

package assembler

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/AryanBlip/Invoice-Automation/internal/amountwords"
	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/config"
	"github.com/AryanBlip/Invoice-Automation/internal/docx"
	"github.com/AryanBlip/Invoice-Automation/internal/editor"
	"github.com/AryanBlip/Invoice-Automation/internal/monthyear"
	"github.com/AryanBlip/Invoice-Automation/internal/numfmt"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

const op = "assemble"

// tableFontSize is the point size of the customer table text.
const tableFontSize = 10

var (
	fivePercent = decimal.RequireFromString("0.05")
	withVAT     = decimal.RequireFromString("1.05")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Totals are the sums of the rounded row values.
type Totals struct {
	LoanAmount decimal.Decimal
	Payout     decimal.Decimal
	VAT        decimal.Decimal
	Incentive  decimal.Decimal

	// Payable is the amount spelled out in words: the incentive plus 5% for
	// VAT-on-top banks, the incentive itself otherwise.
	Payable decimal.Decimal
}

// Result is a filled invoice.
type Result struct {
	// Document is the filled copy of the template.
	Document *docx.Document

	// Replacements is the token table that was substituted.
	Replacements *ReplacementTable

	// Totals are the invoice totals.
	Totals Totals

	// Rows is the number of table rows written.
	Rows int

	// Unresolved lists bracketed tokens still present after substitution.
	Unresolved []string
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler fills templates.
type Assembler struct {
	// Logger receives warnings about unresolved placeholders.
	Logger *log.Logger

	// Now supplies the default invoice date.
	Now func() time.Time
}

// New returns an Assembler logging to logger.
func New(logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.Default()
	}
	return &Assembler{Logger: logger, Now: time.Now}
}

// Assemble fills tpl with a default Assembler.
func Assemble(tpl *docx.Document, rows []types.Row, h types.Header, v bank.Variant, p config.BankProfile) (*Result, error) {
	return New(nil).Assemble(tpl, rows, h, v, p)
}

// Assemble fills a copy of tpl with rows and the header fields of h.
//
// PARAMETERS:
//   - tpl: The template; it is not modified.
//   - rows: The final rows, in table order.
//   - h: The invoice header. An empty InvoiceDate means today.
//   - v: The bank variant.
//   - p: The bill-to profile of the bank.
//
// RETURNS:
//   - The filled document with its totals and replacement table.
//   - A MissingInput, Structural or Validation error; nothing is returned
//     with it.
func (a *Assembler) Assemble(tpl *docx.Document, rows []types.Row, h types.Header, v bank.Variant, p config.BankProfile) (*Result, error) {
	if err := validation.RequireInvoiceNumber(op, h); err != nil {
		return nil, err
	}
	if err := validation.RequireMonthYear(op, h); err != nil {
		return nil, err
	}
	abbr, full, err := monthyear.Normalize(h.MonthYear)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, validation.NewStructural(op, "No data loaded. Please select a valid file", nil)
	}
	tableIndex := findCustomerTable(tpl, v)
	if tableIndex < 0 {
		return nil, validation.NewStructural(op, "Customer table not found in template", nil)
	}

	doc := tpl.Clone()
	table := doc.Tables()[tableIndex]
	monthLabel := numfmt.TitleCase(abbr)

	var totals Totals
	for _, row := range rows {
		if err := writeRow(table, row, v, monthLabel); err != nil {
			return nil, err
		}
		totals.LoanAmount = totals.LoanAmount.Add(row.LoanAmount)
		totals.Payout = totals.Payout.Add(row.Payout)
		totals.VAT = totals.VAT.Add(row.VAT)
		totals.Incentive = totals.Incentive.Add(row.Incentive)
	}
	table.SetFontSize(tableFontSize)

	invoiceDate := strings.TrimSpace(h.InvoiceDate)
	if invoiceDate == "" {
		invoiceDate = types.Today(a.now())
	}

	replacements := NewReplacementTable()
	replacements.Set("[date today]", invoiceDate)
	replacements.Set(v.InvoiceNumberToken, h.InvoiceNumber)
	replacements.Set("[bank name]", p.Name)
	replacements.Set("[address]", p.Address)
	replacements.Set("[bank TRN]", p.TRN)
	replacements.Set("[month year]", monthLabel)
	replacements.Set("[FullMonth year]", numfmt.TitleCase(full))
	if err := addTotals(replacements, &totals, v); err != nil {
		return nil, err
	}

	substitute(doc, replacements)

	result := &Result{
		Document:     doc,
		Replacements: replacements,
		Totals:       totals,
		Rows:         len(rows),
		Unresolved:   unresolved(doc),
	}
	if len(result.Unresolved) > 0 {
		a.logger().Warn("template has unresolved placeholders", "bank", v.Code, "tokens", strings.Join(result.Unresolved, " "))
	}
	return result, nil
}

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *Assembler) logger() *log.Logger {
	if a.Logger == nil {
		return log.Default()
	}
	return a.Logger
}

// =============================================================================
// TABLE
// =============================================================================

// findCustomerTable returns the index of the first top-level table whose
// header row carries every required label, or -1.
func findCustomerTable(doc *docx.Document, v bank.Variant) int {
	for i, t := range doc.Tables() {
		if len(validation.RequireLabels(t.HeaderLabels(), v.RequiredTableLabels)) == 0 {
			return i
		}
	}
	return -1
}

// writeRow appends row to table.
func writeRow(table docx.Table, row types.Row, v bank.Variant, monthLabel string) error {
	for _, d := range []decimal.Decimal{row.LoanAmount, row.Slab, row.Payout, row.VAT, row.Incentive} {
		if d.IsNegative() {
			return &validation.Error{
				Kind:     validation.Validation,
				Op:       op,
				Customer: row.CustomerName,
				Message:  "Error processing data for row. Amounts must not be negative",
			}
		}
	}

	cells := table.AddRow().Cells()
	if len(cells) < len(v.TableLayout) {
		return &validation.Error{
			Kind:     validation.Validation,
			Op:       op,
			Customer: row.CustomerName,
			Message:  "Error processing data for row. The template table has too few columns",
		}
	}

	for i, col := range v.TableLayout {
		text := editor.Cell(row, col.Field)
		if col.Field == types.FieldDisbursalDate && monthLabel != "" {
			text = monthLabel
		}
		cells[i].SetText(text)
		if col.Align != bank.AlignLeft {
			for _, p := range cells[i].Paragraphs() {
				p.SetAlignment(alignment(col.Align))
			}
		}
	}
	return nil
}

func alignment(a bank.Alignment) docx.Alignment {
	switch a {
	case bank.AlignCenter:
		return docx.AlignCenter
	case bank.AlignRight:
		return docx.AlignRight
	}
	return docx.AlignLeft
}

// =============================================================================
// REPLACEMENTS
// =============================================================================

// addTotals adds the totals vocabulary of v and sets totals.Payable.
func addTotals(t *ReplacementTable, totals *Totals, v bank.Variant) error {
	t.Set("[total loan]", numfmt.FormatAmount(totals.LoanAmount))

	switch v.Totals {
	case bank.TotalsVATInside:
		totals.Payable = totals.Incentive
		t.Set("[total payout]", numfmt.FormatAmount(totals.Payout))
		t.Set("[total vat]", numfmt.FormatAmount(totals.VAT))
	default:
		totals.Payable = totals.Incentive.Mul(withVAT).Round(2)
		t.Set("[five percent]", numfmt.FormatAmount(totals.Incentive.Mul(fivePercent).Round(2)))
		t.Set("[total incent]", numfmt.FormatAmount(totals.Incentive))
	}

	words, err := amountwords.FromDecimal(totals.Payable)
	if err != nil {
		return validation.NewUnknown(op, err)
	}
	t.Set("[VAT&incent]", numfmt.FormatAmount(totals.Payable))
	t.Set("[AmtinWords]", words)
	return nil
}

// substitute applies t to the body paragraphs, then to every table cell,
// then to headers and footers.
func substitute(doc *docx.Document, t *ReplacementTable) {
	paragraphs := doc.Paragraphs()
	for _, table := range doc.Tables() {
		paragraphs = append(paragraphs, table.Paragraphs()...)
	}
	paragraphs = append(paragraphs, doc.HeaderFooterParagraphs()...)

	for _, p := range paragraphs {
		if text, changed := t.Apply(p.Text()); changed {
			p.SetText(text)
		}
	}
}

// unresolved returns the distinct bracketed tokens left in doc, in order of
// first appearance.
func unresolved(doc *docx.Document) []string {
	var tokens []string
	for _, p := range doc.AllParagraphs() {
		for _, tok := range findPlaceholders(p.Text()) {
			if !slices.Contains(tokens, tok) {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}
