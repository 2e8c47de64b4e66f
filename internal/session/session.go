// =============================================================================
// Invoice Automation - Session Module
// =============================================================================
//
// This module orchestrates one invoicing run for one bank, from the
// spreadsheet to the exported document.
//
// INVOICING PIPELINE:
//   1. Read the first sheet of the spreadsheet
//   2. Extract rows with the bank's column discovery and formula
//   3. Apply operator edits to the rows
//   4. Assemble the invoice on a copy of the bank's template
//   5. Save the working document and convert it to the output format
//   6. Increment the invoice counter (counter bank only)
//   7. Write the diagnostics log of skipped rows
//
// A session is used from a single goroutine. Step 5 can be repeated with the
// same assembled invoice after an I/O failure.
//
// =============================================================================

package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/AryanBlip/Invoice-Automation/internal/assembler"
	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/config"
	"github.com/AryanBlip/Invoice-Automation/internal/counter"
	"github.com/AryanBlip/Invoice-Automation/internal/docx"
	"github.com/AryanBlip/Invoice-Automation/internal/editor"
	"github.com/AryanBlip/Invoice-Automation/internal/export"
	"github.com/AryanBlip/Invoice-Automation/internal/extractor"
	"github.com/AryanBlip/Invoice-Automation/internal/sheetreader"
	"github.com/AryanBlip/Invoice-Automation/internal/types"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
	"github.com/AryanBlip/Invoice-Automation/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one exported invoice.
type Result struct {
	// RunID identifies the session in logs.
	RunID string

	// InputPath is the spreadsheet the rows came from.
	InputPath string

	// OutputFile is the exported invoice.
	OutputFile string

	// InvoiceNumber is the number printed on the invoice.
	InvoiceNumber string

	// Totals are the sums printed on the invoice.
	Totals assembler.Totals

	// Unresolved lists placeholders left in the document.
	Unresolved []string

	// NextInvoiceNumber is the counter value after the increment. It is zero
	// for banks without a counter or when the increment failed.
	NextInvoiceNumber int

	// DiagnosticsLog is the skipped-rows log, if one was written.
	DiagnosticsLog string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// RowsLoaded is the number of rows extracted from the spreadsheet.
	RowsLoaded int

	// RowsSkipped is the number of spreadsheet rows rejected.
	RowsSkipped int

	// RowsEdited counts accepted edits.
	RowsEdited int

	// ProcessingTime is the time from Load to the end of the export.
	ProcessingTime time.Duration
}

// =============================================================================
// SESSION STRUCTURE
// =============================================================================

// Session holds the state of one invoicing run.
type Session struct {
	id       string
	variant  bank.Variant
	profile  config.BankProfile
	cfg      *config.MainConfig
	logger   *log.Logger
	counter  *counter.Counter
	exporter *export.Exporter
	files    *utils.FileManager

	// Now is the clock used for the invoice date and the suggested number.
	Now func() time.Time

	started     time.Time
	inputPath   string
	rows        []types.Row
	diagnostics []types.Diagnostic
	suggested   string
	edits       int

	assembled *assembler.Result
	header    types.Header
	counted   bool
}

// New creates a session for one bank.
//
// PARAMETERS:
//   - cfg: The main application configuration.
//   - v: The bank variant.
//   - p: The bank's profile.
//   - logger: The logger; nil uses the default logger.
//
// RETURNS:
//   - A new Session with no rows loaded.
func New(cfg *config.MainConfig, v bank.Variant, p config.BankProfile, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.New().String()
	logger = logger.With("run", id[:8], "bank", v.Code)

	s := &Session{
		id:      id,
		variant: v,
		profile: p,
		cfg:     cfg,
		logger:  logger,
		exporter: &export.Exporter{
			WorkingDocument:  cfg.WorkingDocument,
			ConverterCommand: cfg.ConverterCommand,
			Logger:           logger,
		},
		files: utils.NewFileManager(cfg.OutputDir),
		Now:   time.Now,
	}
	if v.OwnsCounter {
		s.counter = counter.New(cfg.CounterFile)
	}
	return s
}

// ID returns the run ID.
func (s *Session) ID() string { return s.id }

// Variant returns the session's bank.
func (s *Session) Variant() bank.Variant { return s.variant }

// Rows returns a copy of the current rows.
func (s *Session) Rows() []types.Row {
	return append([]types.Row(nil), s.rows...)
}

// Diagnostics returns the rows rejected by Load.
func (s *Session) Diagnostics() []types.Diagnostic {
	return append([]types.Diagnostic(nil), s.diagnostics...)
}

// SuggestedInvoiceNumber returns the number read from the counter during
// Load, or "" for banks without a counter.
func (s *Session) SuggestedInvoiceNumber() string { return s.suggested }

// =============================================================================
// LOAD AND EDIT
// =============================================================================

// Load reads the spreadsheet at path and replaces the session's rows.
//
// RETURNS:
//   - A Structural error when the file is missing, unreadable or yields no
//     rows; an Unknown error for anything else.
func (s *Session) Load(path string) error {
	s.started = s.Now()

	sheet, err := sheetreader.Read(path)
	if err != nil {
		switch {
		case errors.Is(err, sheetreader.ErrNotFound):
			return validation.NewStructural("load", "Excel file not found at: "+path, err)
		case errors.Is(err, sheetreader.ErrMalformed):
			return validation.NewStructural("load", "Unable to read the Excel file", err)
		default:
			return validation.NewUnknown("load", err)
		}
	}

	result, err := extractor.Extract(sheet, s.variant, s.logger)
	if err != nil {
		if validation.KindOf(err) == validation.Unknown {
			return validation.NewUnknown("load", err)
		}
		return err
	}

	s.inputPath = path
	s.rows = result.Rows
	s.diagnostics = result.Diagnostics
	s.invalidate()

	if s.counter != nil {
		suggested, err := s.counter.Suggest(s.Now().Year())
		if err != nil {
			s.logger.Warn("could not read the invoice counter", "path", s.counter.Path(), "error", err)
		} else {
			s.suggested = suggested
		}
	}

	s.logger.Info("spreadsheet loaded", "path", path, "rows", len(s.rows), "skipped", len(s.diagnostics))
	return nil
}

// Edit applies one operator edit to the row at rowIndex.
//
// PARAMETERS:
//   - rowIndex: The zero-based row index.
//   - fieldIndex: The zero-based index into the bank's grid columns.
//   - value: The new cell text.
//
// RETURNS:
//   - editor.ErrDerivedField for a calculated column, a Validation error for
//     a bad index or value. The row is unchanged on error.
func (s *Session) Edit(rowIndex, fieldIndex int, value string) error {
	if rowIndex < 0 || rowIndex >= len(s.rows) {
		return validation.NewValidation("edit", "row", fmt.Sprint(rowIndex+1),
			fmt.Sprintf("row must be between 1 and %d", len(s.rows)))
	}

	row, err := editor.ApplyEdit(s.rows[rowIndex], s.variant, fieldIndex, value)
	if err != nil {
		return err
	}

	s.rows[rowIndex] = row
	s.edits++
	s.invalidate()
	s.logger.Debug("row edited", "row", rowIndex+1, "column", fieldIndex+1)
	return nil
}

// =============================================================================
// INVOICE CREATION
// =============================================================================

// Assemble fills a copy of the bank's template with the current rows.
func (s *Session) Assemble(h types.Header) (*assembler.Result, error) {
	if len(s.rows) == 0 {
		return nil, validation.NewStructural("assemble", "No data loaded. Please select a valid file", nil)
	}

	templatePath := s.cfg.TemplatePath(s.profile)
	tpl, err := docx.Open(templatePath)
	if err != nil {
		return nil, validation.NewStructural("assemble", "Template not found or unreadable: "+templatePath, err)
	}

	a := assembler.New(s.logger)
	a.Now = s.Now
	result, err := a.Assemble(tpl, s.rows, h, s.variant, s.profile)
	if err != nil {
		return nil, err
	}

	s.assembled = result
	s.header = h
	s.counted = false
	return result, nil
}

// Export writes the assembled invoice to outputPath. It can be called again
// after a failure. The counter is incremented after the first successful
// export of an assembled invoice.
func (s *Session) Export(ctx context.Context, outputPath string) (*Result, error) {
	if s.assembled == nil {
		return nil, validation.NewStructural("export", "No invoice assembled", nil)
	}

	outputPath = s.files.ResolveOutputPath(outputPath)
	if err := s.files.EnsureDirectories(); err != nil {
		return nil, validation.NewIO("export", "failed to prepare the output directory", err)
	}
	if err := s.exporter.Export(ctx, s.assembled.Document, outputPath); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:         s.id,
		InputPath:     s.inputPath,
		OutputFile:    outputPath,
		InvoiceNumber: s.header.InvoiceNumber,
		Totals:        s.assembled.Totals,
		Unresolved:    s.assembled.Unresolved,
		Stats: ProcessingStats{
			RowsLoaded:  len(s.rows),
			RowsSkipped: len(s.diagnostics),
			RowsEdited:  s.edits,
		},
	}

	if s.counter != nil && !s.counted {
		next, err := s.counter.Increment()
		if err != nil {
			s.logger.Warn("failed to increment the invoice counter", "path", s.counter.Path(), "error", err)
		} else {
			s.counted = true
			result.NextInvoiceNumber = next
		}
	}

	if len(s.diagnostics) > 0 {
		entries := utils.EntriesFromDiagnostics(filepath.Base(s.inputPath), s.diagnostics)
		logPath, err := utils.WriteErrorLog(entries, filepath.Dir(outputPath))
		if err != nil {
			s.logger.Warn("failed to write the diagnostics log", "error", err)
		}
		result.DiagnosticsLog = logPath
	}

	if !s.started.IsZero() {
		result.Stats.ProcessingTime = s.Now().Sub(s.started)
	}
	return result, nil
}

// CreateInvoice assembles the invoice and exports it to outputPath.
func (s *Session) CreateInvoice(ctx context.Context, h types.Header, outputPath string) (*Result, error) {
	if _, err := s.Assemble(h); err != nil {
		return nil, err
	}
	return s.Export(ctx, outputPath)
}

// invalidate drops an assembled invoice that no longer matches the rows.
func (s *Session) invalidate() {
	s.assembled = nil
	s.counted = false
}
