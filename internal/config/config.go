// =============================================================================
// Invoice Automation - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration files.
// It handles both the main application configuration and the bank profiles
// printed on the invoices.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings, read through
//      viper. Every key can be overridden from the environment with the
//      INVOICER_ prefix (INVOICER_OUTPUT_DIR, INVOICER_LOG_LEVEL, ...).
//   2. Bank Profiles (configs/*.yaml): Bill-to name, address and TRN per
//      bank. Built-in profiles are used for banks without a file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "INVOICER"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// TemplatesDir is the directory containing the <CODE>template.docx files.
	// Default: "./templates"
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`

	// ConfigsDir is the directory containing the bank profile files.
	// Default: "./configs"
	ConfigsDir string `mapstructure:"configs_dir" yaml:"configs_dir"`

	// OutputDir is where invoices are written when the operator gives a bare
	// file name, and where diagnostics logs go.
	// Default: "./output"
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// =========================================================================
	// DOCUMENT SETTINGS
	// =========================================================================

	// WorkingDocument is the intermediate filled .docx written before
	// conversion.
	// Default: "filled.docx"
	WorkingDocument string `mapstructure:"working_document" yaml:"working_document"`

	// CounterFile holds the next invoice number of the counter bank.
	// Default: "invoice_counter.txt"
	CounterFile string `mapstructure:"counter_file" yaml:"counter_file"`

	// ConverterCommand is the office suite binary used to convert the
	// working document into the requested output format.
	// Default: "soffice"
	ConverterCommand string `mapstructure:"converter_command" yaml:"converter_command"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFile, when set, receives a copy of the log output.
	// Default: "" (stderr only)
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// =============================================================================
// MAIN CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The config file to read. When empty, ./config.yaml is
//     used if present and the defaults otherwise.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or a value is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	applyMainConfigDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config MainConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults registers the default of every key. Registering
// each key also lets AutomaticEnv overrides reach Unmarshal.
func applyMainConfigDefaults(v *viper.Viper) {
	v.SetDefault("templates_dir", "./templates")
	v.SetDefault("configs_dir", "./configs")
	v.SetDefault("output_dir", "./output")
	v.SetDefault("working_document", "filled.docx")
	v.SetDefault("counter_file", "invoice_counter.txt")
	v.SetDefault("converter_command", "soffice")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if _, err := log.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if strings.TrimSpace(config.WorkingDocument) == "" {
		return fmt.Errorf("working_document must not be empty")
	}
	if !strings.EqualFold(filepath.Ext(config.WorkingDocument), ".docx") {
		return fmt.Errorf("working_document %q must be a .docx file", config.WorkingDocument)
	}
	if strings.TrimSpace(config.ConverterCommand) == "" {
		return fmt.Errorf("converter_command must not be empty")
	}
	return nil
}

// TemplatePath returns the template path of a bank.
func (c *MainConfig) TemplatePath(p BankProfile) string {
	return filepath.Join(c.TemplatesDir, p.Template)
}

// =============================================================================
// BANK PROFILES
// =============================================================================

// BankProfile is the bill-to block of an invoice.
type BankProfile struct {
	// Code is the bank code the profile belongs to.
	Code string `yaml:"code"`

	// Name fills [bank name].
	Name string `yaml:"name"`

	// Address fills [address]. Line breaks are kept.
	Address string `yaml:"address"`

	// TRN is the bank's tax registration number and fills [bank TRN].
	TRN string `yaml:"trn"`

	// Template overrides the template file name of the bank.
	Template string `yaml:"template"`
}

// builtinProfiles are used for banks without a profile file.
var builtinProfiles = map[string]BankProfile{
	"ADIB": {
		Name:    "ADIB",
		Address: "P.O. Box 313, \nAbu Dhabi, U.A.E.",
		TRN:     "100280472000003",
	},
}

// DefaultProfile returns the built-in profile of a bank.
func DefaultProfile(v bank.Variant) BankProfile {
	p, ok := builtinProfiles[v.Code]
	if !ok {
		p = BankProfile{Name: v.Code}
	}
	p.Code = v.Code
	p.Template = v.TemplateFile
	return p
}

// LoadBankProfiles loads the profile of every known bank. Files in
// configsDir override the built-in profiles; a missing directory is not an
// error.
//
// PARAMETERS:
//   - configsDir: The directory containing the profile files.
//
// RETURNS:
//   - A map of profiles, keyed by bank code.
//   - An error if a file cannot be parsed or names an unknown bank.
func LoadBankProfiles(configsDir string) (map[string]BankProfile, error) {
	profiles := make(map[string]BankProfile)
	for _, v := range bank.All() {
		profiles[v.Code] = DefaultProfile(v)
	}

	// Find all YAML files in the configs directory.
	files, err := filepath.Glob(filepath.Join(configsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}

	// Also check for .yml extension.
	ymlFiles, err := filepath.Glob(filepath.Join(configsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		profile, err := loadBankProfile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		// If no code is specified, use the file name.
		code := profile.Code
		if code == "" {
			code = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		}
		v, err := bank.Lookup(code)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		profiles[v.Code] = mergeProfile(profiles[v.Code], *profile)
	}

	return profiles, nil
}

// LoadBankProfile returns the profile of one bank.
func LoadBankProfile(configsDir string, v bank.Variant) (BankProfile, error) {
	profiles, err := LoadBankProfiles(configsDir)
	if err != nil {
		return BankProfile{}, err
	}
	return profiles[v.Code], nil
}

// loadBankProfile loads a single profile file.
func loadBankProfile(filePath string) (*BankProfile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var profile BankProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	return &profile, nil
}

// mergeProfile overlays the non-empty fields of override onto base.
func mergeProfile(base, override BankProfile) BankProfile {
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.Address != "" {
		base.Address = override.Address
	}
	if override.TRN != "" {
		base.TRN = override.TRN
	}
	if override.Template != "" {
		base.Template = override.Template
	}
	return base
}
