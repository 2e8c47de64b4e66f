// =============================================================================
// Invoice Automation - Export
// =============================================================================
//
// This module hands a filled invoice to its final destination:
//   1. The document is saved to the working document (filled.docx)
//   2. A .docx destination receives a copy of the working document
//   3. Any other destination is produced by the office converter:
//        soffice --headless --convert-to <ext> --outdir <dir> <working>
//      and the converted file is moved onto the destination path
//
// ERROR HANDLING:
//   Every failure is an IO error. Permission failures carry the "close the
//   file and try again" message. Export can be retried with the same
//   document.
//
// =============================================================================

package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/AryanBlip/Invoice-Automation/internal/docx"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

const op = "export"

// PermissionMessage is shown when the destination cannot be written.
const PermissionMessage = "Permission denied. Close the file if it's open and try again."

// Exporter writes filled documents.
type Exporter struct {
	// WorkingDocument is the intermediate .docx path.
	WorkingDocument string

	// ConverterCommand is the office suite binary.
	ConverterCommand string

	// Logger receives progress messages.
	Logger *log.Logger
}

// Export saves doc to the working document and produces outputPath from it.
//
// PARAMETERS:
//   - ctx: Cancels a running conversion.
//   - doc: The filled document.
//   - outputPath: The destination; its extension selects the format.
//
// RETURNS:
//   - An IO error if any step fails.
func (e *Exporter) Export(ctx context.Context, doc *docx.Document, outputPath string) error {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}

	if err := doc.Save(e.WorkingDocument); err != nil {
		return ioError("failed to save the working document", err)
	}
	logger.Debug("saved working document", "path", e.WorkingDocument)

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	switch ext {
	case "":
		return validation.NewIO(op, "output path has no file extension", fmt.Errorf("%q", outputPath))
	case "docx":
		if err := copyFile(e.WorkingDocument, outputPath); err != nil {
			return ioError("failed to write the invoice", err)
		}
	default:
		if err := e.convert(ctx, ext, outputPath); err != nil {
			return err
		}
	}

	logger.Info("invoice written", "path", outputPath)
	return nil
}

// convert runs the converter into a scratch directory next to outputPath and
// moves the result into place.
func (e *Exporter) convert(ctx context.Context, ext, outputPath string) error {
	scratch, err := os.MkdirTemp(filepath.Dir(outputPath), ".invoicer-*")
	if err != nil {
		return ioError("failed to prepare the output directory", err)
	}
	defer os.RemoveAll(scratch)

	cmd := exec.CommandContext(ctx, e.ConverterCommand,
		"--headless", "--convert-to", ext, "--outdir", scratch, e.WorkingDocument)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return validation.NewIO(op, "document conversion failed",
			fmt.Errorf("%s: %w: %s", e.ConverterCommand, err, strings.TrimSpace(string(out))))
	}

	base := strings.TrimSuffix(filepath.Base(e.WorkingDocument), filepath.Ext(e.WorkingDocument))
	converted := filepath.Join(scratch, base+"."+ext)
	if _, err := os.Stat(converted); err != nil {
		return validation.NewIO(op, "document conversion produced no output", err)
	}

	if err := os.Rename(converted, outputPath); err != nil {
		if err := copyFile(converted, outputPath); err != nil {
			return ioError("failed to write the invoice", err)
		}
	}
	return nil
}

// ioError classifies a failed write, giving permission failures the
// operator-facing retry message.
func ioError(message string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return validation.NewIO(op, PermissionMessage, err)
	}
	return validation.NewIO(op, message, err)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
