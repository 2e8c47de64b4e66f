package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMainConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "templates_dir: ./tpl\n")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "./tpl", cfg.TemplatesDir)
	assert.Equal(t, "./configs", cfg.ConfigsDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "filled.docx", cfg.WorkingDocument)
	assert.Equal(t, "invoice_counter.txt", cfg.CounterFile)
	assert.Equal(t, "soffice", cfg.ConverterCommand)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMainConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "output_dir: ./from-file\n")
	t.Setenv("INVOICER_OUTPUT_DIR", "./from-env")
	t.Setenv("INVOICER_LOG_LEVEL", "debug")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "./from-env", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMainConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	badLevel := filepath.Join(dir, "level.yaml")
	writeFile(t, badLevel, "log_level: chatty\n")
	_, err := LoadMainConfig(badLevel)
	require.Error(t, err)

	badDoc := filepath.Join(dir, "doc.yaml")
	writeFile(t, badDoc, "working_document: filled.pdf\n")
	_, err = LoadMainConfig(badDoc)
	require.Error(t, err)

	_, err = LoadMainConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadBankProfiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dib.yaml"), "name: Dubai Islamic Bank PJSC\naddress: |-\n  P.O. Box 1080\n  Dubai, U.A.E.\ntrn: \"100000000000003\"\n")
	writeFile(t, filepath.Join(dir, "other.yml"), "code: enbd\ntemplate: ENBD-2025.docx\n")

	profiles, err := LoadBankProfiles(dir)
	require.NoError(t, err)
	require.Len(t, profiles, len(bank.Codes()))

	adib := profiles["ADIB"]
	assert.Equal(t, "ADIB", adib.Name)
	assert.Equal(t, "100280472000003", adib.TRN)
	assert.Equal(t, "ADIBtemplate.docx", adib.Template)

	dib := profiles["DIB"]
	assert.Equal(t, "Dubai Islamic Bank PJSC", dib.Name)
	assert.Equal(t, "P.O. Box 1080\nDubai, U.A.E.", dib.Address)
	assert.Equal(t, "DIBtemplate.docx", dib.Template)

	assert.Equal(t, "ENBD-2025.docx", profiles["ENBD"].Template)
	assert.Equal(t, "ENBD", profiles["ENBD"].Name)
}

func TestLoadBankProfilesUnknownBank(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hsbc.yaml"), "name: HSBC\n")

	_, err := LoadBankProfiles(dir)
	require.Error(t, err)
}

func TestLoadBankProfilesMissingDir(t *testing.T) {
	profiles, err := LoadBankProfiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Len(t, profiles, 4)
}

func TestTemplatePath(t *testing.T) {
	cfg := &MainConfig{TemplatesDir: "tpl"}
	v, err := bank.Lookup("EIB")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("tpl", "EIBtemplate.docx"), cfg.TemplatePath(DefaultProfile(v)))
}
