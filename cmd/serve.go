// =============================================================================
// billforge - Serve Command
// =============================================================================
//
// Runs the interactive preview server: upload a workbook, edit fields with
// live recomputation, preview the watermarked PDF and download the final
// document.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/billforge/billforge/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive invoice preview server",
	Long: `The serve command starts an HTTP server exposing the upload/edit/preview
workflow. Invoice records live in process memory for the lifetime of a
session; nothing is persisted server-side except the issuer profile, which
is only written by an explicit save.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.ServerAddr = serveAddr
		}
		return server.New(cfg, log, nil).ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides the configured server_addr)")
}
