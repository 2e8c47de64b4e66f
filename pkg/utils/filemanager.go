// =============================================================================
// Invoice Automation - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the invoicer, including:
//   - Directory management
//   - Output file naming
//   - Diagnostics log generation for skipped spreadsheet rows
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AryanBlip/Invoice-Automation/internal/types"
)

// unsafeNameChars matches characters that cannot appear in a file name on
// every platform. Invoice numbers such as "007/2025" contain them.
var unsafeNameChars = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager owns the output directory of the invoicer.
type FileManager struct {
	// OutputDir receives invoices given by bare file name and the
	// diagnostics logs.
	OutputDir string
}

// NewFileManager creates a new FileManager instance.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if fm.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// ResolveOutputPath places a bare file name in the output directory. Paths
// with a directory part are returned unchanged.
func (fm *FileManager) ResolveOutputPath(name string) string {
	if filepath.Base(name) != name || fm.OutputDir == "" {
		return name
	}
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name based on the format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {bank}      - Bank code
//     {invoice}   - Invoice number
//   - params: A map of placeholder values.
//   - ext: The extension to ensure, such as ".pdf".
//
// RETURNS:
//   - The generated file name, with unsafe characters replaced by "-".
//
// EXAMPLE:
//
//	format: "{bank}_{invoice}_{date}"
//	params: {"bank": "EIB", "invoice": "007/2025"}
//	output: "EIB_007-2025_20250304.pdf"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = SanitizeFileName(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// SanitizeFileName replaces path separators, reserved characters and
// whitespace with "-".
func SanitizeFileName(s string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(strings.TrimSpace(s), "-"), "-")
}

// =============================================================================
// DIAGNOSTICS LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single diagnostics log entry.
type ErrorLogEntry struct {
	Timestamp    time.Time
	FileName     string
	ErrorType    string
	ErrorMessage string
	RowNumber    int
	Customer     string
}

// EntriesFromDiagnostics converts skipped-row diagnostics of fileName into
// log entries.
func EntriesFromDiagnostics(fileName string, diags []types.Diagnostic) []ErrorLogEntry {
	now := time.Now()
	entries := make([]ErrorLogEntry, 0, len(diags))
	for _, d := range diags {
		entries = append(entries, ErrorLogEntry{
			Timestamp:    now,
			FileName:     fileName,
			ErrorType:    "skipped row",
			ErrorMessage: d.Reason,
			RowNumber:    d.Row,
		})
	}
	return entries
}

// WriteErrorLog writes entries to a log file.
//
// PARAMETERS:
//   - entries: The entries to write.
//   - outputDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the log file, or "" when there was nothing to write.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logFileName := fmt.Sprintf("skipped_rows_%s_%s.txt",
		time.Now().Format("20060102_150405"), uuid.New().String()[:8])
	logPath := filepath.Join(outputDir, logFileName)

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Invoice Automation - Skipped Rows\n"+
		"Generated: %s\n"+
		"Total Entries: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Entry #%d\n"+
			"  Timestamp:  %s\n"+
			"  File:       %s\n"+
			"  Type:       %s\n"+
			"  Message:    %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.ErrorType,
			entry.ErrorMessage)
		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number: %d\n", entry.RowNumber)
		}
		if entry.Customer != "" {
			fmt.Fprintf(writer, "  Customer:   %s\n", entry.Customer)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}
