// =============================================================================
// Invoice Automation - Main Entry Point
// =============================================================================
//
// This is the main entry point for the invoicer CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   invoicer banks     - List the supported banks
//   invoicer preview   - Show the rows extracted from a spreadsheet
//   invoicer generate  - Generate an invoice
//   invoicer counter   - Show the next invoice number
//   invoicer version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : Core business logic
//   - pkg/        : Shared utilities
//   - configs/    : Per-bank profile overrides (YAML)
//   - templates/  : Invoice templates (.docx)
//
// =============================================================================

package main

import (
	"github.com/AryanBlip/Invoice-Automation/cmd"
)

func main() {
	cmd.Execute()
}
