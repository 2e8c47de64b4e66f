// =============================================================================
// Invoice Automation - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which is the main command for
// producing an invoice. It orchestrates the entire invoicing pipeline.
//
// COMMAND USAGE:
//   invoicer generate [flags]
//
// FLAGS:
//   --bank           : Bank code (ADIB, DIB, EIB, ENBD)
//   --input          : The disbursement spreadsheet
//   --invoice-number : Invoice number (EIB defaults to the counter)
//   --invoice-date   : Invoice date, dd/mm/yyyy (defaults to today)
//   --month-year     : Month and year of the disbursements, e.g. "mar 2025"
//   --output         : Output file; .docx is copied, other formats converted
//   --edit           : ROW:COL=VALUE, repeatable
//
// PROCESSING PIPELINE:
//   1. Load configuration and the bank profile
//   2. Read and extract the spreadsheet rows
//   3. Apply edits
//   4. Fill the template and export the invoice
//   5. Advance the invoice counter (EIB)
//   6. Write the skipped-rows log
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AryanBlip/Invoice-Automation/internal/numfmt"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
	"github.com/AryanBlip/Invoice-Automation/pkg/utils"
)

// defaultOutputFormat names invoices when --output is not given.
const defaultOutputFormat = "{bank}_{invoice}_{date}"

var generateFlags struct {
	bank          string
	input         string
	invoiceNumber string
	invoiceDate   string
	monthYear     string
	output        string
	edits         []string
}

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an invoice from a spreadsheet",
	Long: `The generate command reads the spreadsheet, applies any edits, fills the
bank's invoice template and writes the invoice.

Outputs ending in .docx are written directly. Any other extension, such as
.pdf, is produced by the configured converter (LibreOffice by default). A bare
file name is placed in the output directory.

If the output file is open in another program the save fails with a
permission message; close the file and run the command again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.bank, "bank", "b", "", "Bank code (ADIB, DIB, EIB, ENBD)")
	f.StringVarP(&generateFlags.input, "input", "i", "", "Path to the .xlsx or .xls spreadsheet")
	f.StringVarP(&generateFlags.invoiceNumber, "invoice-number", "n", "", "Invoice number")
	f.StringVarP(&generateFlags.invoiceDate, "invoice-date", "d", "", "Invoice date (default today, dd/mm/yyyy)")
	f.StringVarP(&generateFlags.monthYear, "month-year", "m", "", `Month and year, e.g. "mar 2025"`)
	f.StringVarP(&generateFlags.output, "output", "o", "", "Output file (default <bank>_<invoice>_<date>.pdf)")
	f.StringArrayVarP(&generateFlags.edits, "edit", "e", nil, "Edit a cell, ROW:COL=VALUE (repeatable)")
	generateCmd.MarkFlagRequired("bank")
	generateCmd.MarkFlagRequired("input")
}

// runGenerate executes the invoicing pipeline.
func runGenerate(cmd *cobra.Command) error {
	s, err := openSession(generateFlags.bank, generateFlags.input)
	if err != nil {
		return err
	}
	if err := applyEdits(s, generateFlags.edits, cmd.ErrOrStderr()); err != nil {
		return err
	}

	header := types.Header{
		InvoiceNumber: generateFlags.invoiceNumber,
		InvoiceDate:   generateFlags.invoiceDate,
		MonthYear:     generateFlags.monthYear,
	}
	if header.InvoiceNumber == "" {
		header.InvoiceNumber = s.SuggestedInvoiceNumber()
	}

	output := generateFlags.output
	if output == "" {
		output = utils.GenerateOutputFileName(defaultOutputFormat, map[string]string{
			"bank":    s.Variant().Code,
			"invoice": header.InvoiceNumber,
		}, ".pdf")
	}

	result, err := s.CreateInvoice(cmd.Context(), header, output)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, okStyle.Render("Invoice created: "+result.OutputFile))
	fmt.Fprintf(out, "  Invoice number: %s\n", result.InvoiceNumber)
	fmt.Fprintf(out, "  Rows:           %d\n", result.Stats.RowsLoaded)
	fmt.Fprintf(out, "  Total loan:     %s\n", numfmt.FormatAmount(result.Totals.LoanAmount))
	fmt.Fprintf(out, "  Amount payable: %s\n", numfmt.FormatAmount(result.Totals.Payable))
	if result.NextInvoiceNumber > 0 {
		fmt.Fprintf(out, "  Next invoice:   %d\n", result.NextInvoiceNumber)
	}
	if len(result.Unresolved) > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("Placeholders left in the template: %v", result.Unresolved)))
	}
	if result.Stats.RowsSkipped > 0 {
		msg := fmt.Sprintf("%d row(s) skipped", result.Stats.RowsSkipped)
		if result.DiagnosticsLog != "" {
			msg += ", see " + result.DiagnosticsLog
		}
		fmt.Fprintln(out, warnStyle.Render(msg))
	}
	return nil
}
