// =============================================================================
// billforge - Root Command
// =============================================================================
//
// Base command for the CLI. Global flags (--config, --verbose) live here;
// subcommands load configuration and logging through loadConfig.
//
// COMMAND TREE:
//   billforge
//   ├── generate   workbook -> PDF
//   ├── template   write the starter workbook
//   ├── profile    show or save the issuer profile
//   ├── serve      run the interactive preview server
//   └── version    build information
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/billforge/billforge/internal/config"
)

// cfgFile is the path to the configuration file, set via --config.
var cfgFile string

// verbose forces debug logging regardless of the configured level.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "billforge",
	Short: "billforge - turn an invoice workbook into a formatted PDF",
	Long: `billforge reads a spreadsheet filled in from the provided template,
normalizes it into an invoice record, overlays your saved issuer profile and
renders a formatted PDF.

Example Usage:
  billforge template                   # write bill-template.xlsx to fill in
  billforge generate --file bill.xlsx  # render the completed workbook
  billforge serve                      # interactive in-browser preview`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig loads configuration and builds the logger for a subcommand.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, cfg.NewLogger(verbose), nil
}
