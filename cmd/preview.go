// =============================================================================
// Invoice Automation - Preview Command
// =============================================================================
//
// This file defines the 'preview' command, which loads a spreadsheet and
// shows the rows an invoice would contain, with any edits applied.
//
// COMMAND USAGE:
//   invoicer preview --bank DIB --input march.xlsx [--edit ROW:COL=VALUE]...
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

var previewFlags struct {
	bank  string
	input string
	edits []string
}

// previewCmd represents the 'preview' command.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the rows extracted from a spreadsheet",
	Long: `The preview command reads the first sheet of the spreadsheet with the
bank's column rules and prints the resulting grid. Row and column numbers in
the grid are the ones --edit expects. Calculated columns are dimmed: they
follow Loan Amount and Payment Slab and cannot be edited.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(previewFlags.bank, previewFlags.input)
		if err != nil {
			return err
		}
		if err := applyEdits(s, previewFlags.edits, cmd.ErrOrStderr()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderGrid(s.Variant(), s.Rows()))
		if diags := s.Diagnostics(); len(diags) > 0 {
			fmt.Fprintln(out, warnStyle.Render(validation.FormatDiagnostics(diags)))
		}
		if n := s.SuggestedInvoiceNumber(); n != "" {
			fmt.Fprintf(out, "Next invoice number: %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewFlags.bank, "bank", "b", "", "Bank code (ADIB, DIB, EIB, ENBD)")
	previewCmd.Flags().StringVarP(&previewFlags.input, "input", "i", "", "Path to the .xlsx or .xls spreadsheet")
	previewCmd.Flags().StringArrayVarP(&previewFlags.edits, "edit", "e", nil, "Edit a cell, ROW:COL=VALUE (repeatable)")
	previewCmd.MarkFlagRequired("bank")
	previewCmd.MarkFlagRequired("input")
}
