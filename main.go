// =============================================================================
// billforge - Main Entry Point
// =============================================================================
//
// USAGE:
//   billforge generate --file bill.xlsx  - Convert a workbook to a PDF
//   billforge template                   - Write the starter workbook
//   billforge profile show|set           - Manage the issuer profile
//   billforge serve                      - Interactive preview server
//   billforge version                    - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : core business logic (layout contract, extractor,
//                   invoice model + recalculation, profile, renderer,
//                   template producer, preview server)
//   - pkg/        : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/billforge/billforge/cmd"
)

func main() {
	cmd.Execute()
}
