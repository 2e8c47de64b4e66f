// =============================================================================
// Invoice Automation - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (invoicer)
//   ├── banksCmd    (invoicer banks)
//   ├── previewCmd  (invoicer preview)
//   ├── generateCmd (invoicer generate)
//   ├── counterCmd  (invoicer counter)
//   └── versionCmd  (invoicer version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the main configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/config"
	"github.com/AryanBlip/Invoice-Automation/internal/session"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig and logger are set up before any subcommand runs.
var (
	mainConfig *config.MainConfig
	logger     *log.Logger
	logFile    *os.File
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Invoice Automation - Bank incentive invoices from disbursement sheets",
	Long: `Invoice Automation fills a bank's invoice template from a loan
disbursement spreadsheet. It reads the sheet, computes each customer's
incentive, lets you review and correct the figures and exports the finished
invoice as .docx or, through LibreOffice, as PDF.

Supported banks: ADIB, DIB, EIB, ENBD.

Example Usage:
  invoicer banks
  invoicer preview --bank DIB --input march.xlsx
  invoicer generate --bank ADIB --input march.xlsx \
      --invoice-number 12 --month-year "mar 2025" --output invoice.pdf
  invoicer counter --bank EIB`,

	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and runs it. Errors are
// printed in operator terms and end the process with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, validation.OperatorMessage(err))
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the main configuration file (default is ./config.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// setup loads the configuration and builds the logger.
func setup() error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return validation.NewStructural("config", "Unable to load the configuration", err)
	}
	mainConfig = cfg

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return validation.NewIO("config", "Unable to open the log file", err)
		}
		logFile = f
		out = io.MultiWriter(os.Stderr, f)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	if verbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(out, log.Options{
		Prefix:          "invoicer",
		ReportTimestamp: true,
		Level:           level,
	})
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// openSession resolves the bank and its profile and loads the spreadsheet.
func openSession(code, input string) (*session.Session, error) {
	v, err := bank.Lookup(code)
	if err != nil {
		return nil, validation.NewValidation("load", "bank", code, err.Error())
	}

	profile, err := config.LoadBankProfile(mainConfig.ConfigsDir, v)
	if err != nil {
		return nil, validation.NewStructural("load", "Unable to load the bank profile", err)
	}

	s := session.New(mainConfig, v, profile, logger)
	if input == "" {
		return nil, validation.NewMissingInput("load", "input", "Please select an Excel file with --input")
	}
	if err := s.Load(input); err != nil {
		return nil, err
	}
	return s, nil
}
