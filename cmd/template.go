// =============================================================================
// billforge - Template Command
// =============================================================================
//
// Writes the starter workbook (labels, item rows with amount formulas,
// totals formulas) that a user fills in and feeds back to generate.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billforge/billforge/internal/template"
	"github.com/billforge/billforge/pkg/utils"
)

var templateOut string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the starter invoice workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := template.Generate()
		if err != nil {
			return err
		}
		if err := utils.WriteFileAtomic(templateOut, data); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", templateOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().StringVar(&templateOut, "out", template.DefaultFileName, "Where to write the template workbook")
}
