// =============================================================================
// billforge - Generate Command
// =============================================================================
//
// Converts one completed workbook into a PDF invoice.
//
// COMMAND USAGE:
//   billforge generate --file bill.xlsx [--preview] [--out dir]
//
// The output file is named from the bill number. --preview renders with the
// diagonal watermark and skips input archival.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billforge/billforge/internal/extractor"
	"github.com/billforge/billforge/internal/pipeline"
)

var (
	generateFile    string
	generatePreview bool
	generateOut     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Convert a completed invoice workbook into a PDF",
	Long: `The generate command extracts the invoice record from a workbook that
follows the billforge template layout, overlays the saved issuer profile,
and renders the final PDF into the output directory.

A workbook that cannot be read, or that does not match the template, fails
with a clear message and produces no output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFile, "file", "", "Path to the workbook to convert (required)")
	generateCmd.Flags().BoolVar(&generatePreview, "preview", false, "Render with the PREVIEW watermark")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Override the configured output directory")
	generateCmd.MarkFlagRequired("file")
}

func runGenerate() error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if generateOut != "" {
		cfg.OutputDir = generateOut
	}

	result := pipeline.New(cfg, log).Run(generateFile, generatePreview)
	if !result.Success {
		switch {
		case errors.Is(result.Error, extractor.ErrUnreadableFile):
			return fmt.Errorf("%s is not a spreadsheet this tool can read", generateFile)
		case errors.Is(result.Error, extractor.ErrMalformedTemplate):
			return fmt.Errorf("%s does not match the billforge template; run 'billforge template' for a starter workbook", generateFile)
		default:
			return result.Error
		}
	}

	fmt.Printf("Invoice %s\n", result.Record.BillNumber)
	fmt.Printf("  Items:     %d\n", result.Stats.ItemCount)
	fmt.Printf("  Total:     %.2f\n", result.Record.TotalAmount)
	fmt.Printf("  Output:    %s\n", result.OutputFile)
	fmt.Printf("  Elapsed:   %s\n", result.Stats.ProcessingTime)
	return nil
}
