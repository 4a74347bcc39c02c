package pipeline_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/layout"
	"github.com/billforge/billforge/internal/pipeline"
	"github.com/billforge/billforge/internal/profile"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "no-config.yaml"))
	require.NoError(t, err)
	cfg.OutputDir = filepath.Join(dir, "output")
	cfg.ProfilePath = filepath.Join(dir, "profile.json")
	return cfg
}

// writeWorkbook drops a minimal filled-in workbook on disk and returns its
// path.
func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells := map[string]interface{}{
		layout.CellCompanyName:  "Acme Supplies Ltd",
		layout.CellCustomerName: "Jordan Blake",
		layout.CellBillNumber:   "INV-2023-007",

		layout.ItemCell(layout.ColDescription, layout.ItemStartRow): "Widget",
		layout.ItemCell(layout.ColQuantity, layout.ItemStartRow):    2,
		layout.ItemCell(layout.ColUnitPrice, layout.ItemStartRow):   10,

		layout.CellTaxRate: 10,
	}
	for addr, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, addr, v))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	path := filepath.Join(dir, "bill.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestRunGeneratesPDF(t *testing.T) {
	cfg := testConfig(t)
	input := writeWorkbook(t, t.TempDir())

	result := pipeline.New(cfg, quietLogger()).Run(input, false)
	require.True(t, result.Success, "pipeline failed: %v", result.Error)

	assert.Equal(t, filepath.Join(cfg.OutputDir, "INV-2023-007.pdf"), result.OutputFile)
	assert.Equal(t, 1, result.Stats.ItemCount)
	assert.False(t, result.Stats.ProfileApplied)
	assert.Equal(t, 22.0, result.Record.TotalAmount)

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRunAppliesSavedProfile(t *testing.T) {
	cfg := testConfig(t)
	store := profile.NewStore(cfg.ProfilePath)
	require.NoError(t, store.Save(profile.Profile{"companyName": "Saved Co"}))

	input := writeWorkbook(t, t.TempDir())
	result := pipeline.New(cfg, quietLogger()).Run(input, false)
	require.True(t, result.Success, "pipeline failed: %v", result.Error)

	assert.True(t, result.Stats.ProfileApplied)
	assert.Equal(t, "Saved Co", result.Record.CompanyName)
}

func TestRunIgnoresCorruptProfile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.ProfilePath, []byte("{broken"), 0644))

	input := writeWorkbook(t, t.TempDir())
	result := pipeline.New(cfg, quietLogger()).Run(input, false)

	require.True(t, result.Success, "pipeline failed: %v", result.Error)
	assert.False(t, result.Stats.ProfileApplied)
	assert.Equal(t, "Acme Supplies Ltd", result.Record.CompanyName)
}

func TestRunMissingInputFile(t *testing.T) {
	cfg := testConfig(t)

	result := pipeline.New(cfg, quietLogger()).Run(filepath.Join(t.TempDir(), "missing.xlsx"), false)
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.Empty(t, result.OutputFile)
}

func TestRunUnreadableInput(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "bill.xlsx")
	require.NoError(t, os.WriteFile(input, []byte("not a spreadsheet"), 0644))

	result := pipeline.New(cfg, quietLogger()).Run(input, false)
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}

func TestRunArchivesInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArchiveDir = filepath.Join(filepath.Dir(cfg.OutputDir), "archive")
	input := writeWorkbook(t, t.TempDir())

	result := pipeline.New(cfg, quietLogger()).Run(input, false)
	require.True(t, result.Success, "pipeline failed: %v", result.Error)

	assert.NoFileExists(t, input)
	assert.FileExists(t, filepath.Join(cfg.ArchiveDir, "bill.xlsx"))
}

func TestRunPreviewSkipsArchival(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArchiveDir = filepath.Join(filepath.Dir(cfg.OutputDir), "archive")
	input := writeWorkbook(t, t.TempDir())

	result := pipeline.New(cfg, quietLogger()).Run(input, true)
	require.True(t, result.Success, "pipeline failed: %v", result.Error)
	assert.FileExists(t, input)
}

func TestResultSerializesForToolingOutput(t *testing.T) {
	cfg := testConfig(t)
	input := writeWorkbook(t, t.TempDir())

	result := pipeline.New(cfg, quietLogger()).Run(input, false)
	require.True(t, result.Success)

	// The record is plain data the CLI can emit as JSON.
	data, err := json.Marshal(result.Record)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INV-2023-007")
}
