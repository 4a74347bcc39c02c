// =============================================================================
// billforge - Generation Pipeline
// =============================================================================
//
// Orchestrates the whole conversion of one workbook into a PDF:
//
//   1. Read the input bytes
//   2. Extract the draft record per the cell layout contract
//   3. Overlay the saved issuer profile
//   4. Validate the record's invariants
//   5. Render the PDF (optionally watermarked)
//   6. Write the output file (named from the bill number)
//   7. Archive the processed workbook, when configured
//
// Every failure is reported through the Result; the pipeline never leaves a
// partially written output behind.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/extractor"
	"github.com/billforge/billforge/internal/invoice"
	"github.com/billforge/billforge/internal/profile"
	"github.com/billforge/billforge/internal/renderer"
	"github.com/billforge/billforge/pkg/utils"
)

// Logger is the logging surface the pipeline needs. *logrus.Logger satisfies
// it directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Result is the outcome of processing one workbook.
type Result struct {
	// InputFile is the workbook that was processed.
	InputFile string

	// OutputFile is the generated PDF path; empty on failure.
	OutputFile string

	// Record is the finalized invoice; nil on failure.
	Record *invoice.Record

	// Success reports whether the run completed.
	Success bool

	// Error holds the failure, nil when Success.
	Error error

	// Stats carries processing statistics.
	Stats Stats
}

// Stats summarizes one run.
type Stats struct {
	ItemCount      int
	ProfileApplied bool
	ProcessingTime time.Duration
}

// Pipeline converts one workbook to a PDF.
type Pipeline struct {
	cfg    *config.Config
	store  *profile.Store
	render renderer.RenderFunc
	log    Logger
}

// New builds a pipeline from the loaded configuration. A nil render
// function means the package renderer.
func New(cfg *config.Config, log Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  profile.NewStore(cfg.ProfilePath),
		render: renderer.Render,
		log:    log,
	}
}

// Run processes a single workbook file. preview=true renders with the
// watermark and skips archival.
func (p *Pipeline) Run(inputPath string, preview bool) Result {
	start := time.Now()
	result := Result{InputFile: inputPath}

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(start)
		return result
	}

	p.log.Infof("processing %s", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fail(fmt.Errorf("failed to read input file: %w", err))
	}

	rec, err := extractor.Extract(data, extractor.Options{DateFormat: p.cfg.DateFormat})
	if err != nil {
		return fail(err)
	}
	p.log.Debugf("extracted %d item(s), bill number %s", len(rec.Items), rec.BillNumber)

	prof, err := p.store.Load()
	if err != nil {
		// A corrupt profile store should not block invoice generation.
		p.log.Warnf("ignoring issuer profile: %v", err)
		prof = nil
	}
	rec = profile.Merge(rec, prof)
	result.Stats.ProfileApplied = len(prof) > 0
	result.Stats.ItemCount = len(rec.Items)

	if violations := invoice.Validate(rec); len(violations) > 0 {
		for _, v := range violations {
			p.log.Errorf("invalid record: %s", v.Error())
		}
		return fail(fmt.Errorf("record failed validation with %d violation(s)", len(violations)))
	}

	pdf, err := p.render(rec, preview)
	if err != nil {
		return fail(err)
	}

	outName := utils.PDFFileName(rec.BillNumber, nil)
	outPath := filepath.Join(p.cfg.OutputDir, outName)
	if err := utils.WriteFileAtomic(outPath, pdf); err != nil {
		return fail(err)
	}
	p.log.Infof("wrote %s", outPath)

	if !preview && p.cfg.ArchiveDir != "" {
		if archived, err := p.archive(inputPath); err != nil {
			p.log.Warnf("failed to archive input: %v", err)
		} else {
			p.log.Debugf("archived input to %s", archived)
		}
	}

	result.Record = rec
	result.OutputFile = outPath
	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	return result
}

func (p *Pipeline) archive(inputPath string) (string, error) {
	return utils.ArchiveFile(inputPath, p.cfg.ArchiveDir)
}
