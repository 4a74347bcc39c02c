// =============================================================================
// billforge - File Manager Utility
// =============================================================================
//
// File naming and archival helpers shared by the CLI pipeline and the
// preview server:
//   - download/output names derived from the bill number (timestamp
//     fallback when absent)
//   - collision-free archival of processed workbooks
//   - directory management
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PDFFileName derives the output file name for a rendered invoice from its
// bill number. Characters a filesystem may reject are replaced, and an empty
// bill number falls back to a timestamped name.
func PDFFileName(billNumber string, now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	base := sanitize(billNumber)
	if base == "" {
		base = fmt.Sprintf("invoice-%s", now().Format("20060102_150405"))
	}
	return base + ".pdf"
}

// sanitize strips path separators and other characters that are unsafe in a
// cross-platform file name.
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	return strings.Trim(replacer.Replace(name), "-. ")
}

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ArchiveFile moves a processed input file into the archive directory. If a
// file with the same name is already archived, a short unique suffix keeps
// the move from clobbering it.
func ArchiveFile(path, archiveDir string) (string, error) {
	if err := EnsureDir(archiveDir); err != nil {
		return "", err
	}

	name := filepath.Base(path)
	dest := filepath.Join(archiveDir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		dest = filepath.Join(archiveDir, fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return dest, nil
}

// WriteFileAtomic writes data to path via a temp file and rename, so a
// partially written output never carries the final name.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".billforge-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
