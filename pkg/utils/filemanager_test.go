package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AryanBlip/Invoice-Automation/internal/types"
)

func TestEnsureDirectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "a", "b")
	fm := NewFileManager(out)

	require.NoError(t, fm.EnsureDirectories())
	assert.DirExists(t, out)
}

func TestResolveOutputPath(t *testing.T) {
	fm := NewFileManager("out")

	assert.Equal(t, filepath.Join("out", "invoice.pdf"), fm.ResolveOutputPath("invoice.pdf"))
	assert.Equal(t, filepath.Join("elsewhere", "invoice.pdf"), fm.ResolveOutputPath(filepath.Join("elsewhere", "invoice.pdf")))
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{bank}_{invoice}", map[string]string{
		"bank":    "EIB",
		"invoice": "007/2025",
	}, ".pdf")
	assert.Equal(t, "EIB_007-2025.pdf", name)

	withID := GenerateOutputFileName("{uuid}.pdf", nil, ".pdf")
	assert.Len(t, strings.TrimSuffix(withID, ".pdf"), 36)
	assert.True(t, strings.HasSuffix(withID, ".pdf"))
	assert.False(t, strings.HasSuffix(withID, ".pdf.pdf"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "INV-12-2025", SanitizeFileName(" INV 12/2025 "))
	assert.Equal(t, "a-b", SanitizeFileName("a:*b"))
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	entries := EntriesFromDiagnostics("data.xlsx", []types.Diagnostic{
		{Row: 4, Reason: `invalid loan amount: "n/a" is not a number`},
	})
	path, err = WriteErrorLog(entries, dir)
	require.NoError(t, err)
	require.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Entries: 1")
	assert.Contains(t, string(data), "Row Number: 4")
	assert.Contains(t, string(data), "data.xlsx")
}
