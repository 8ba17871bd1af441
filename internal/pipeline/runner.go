package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/danielokoye/submittal-scan/internal/export"
	"github.com/danielokoye/submittal-scan/internal/pdf"
	"github.com/danielokoye/submittal-scan/internal/repository"
)

// RunReport is the user-facing outcome of one document run.
type RunReport struct {
	OutputPath        string
	Pages             int
	ProductPages      int
	RowsEmitted       int
	RowsKept          int
	DuplicatesRemoved int
}

// OpenedDocument is the document handle the runner works with: the page
// capabilities the processor needs plus a way to release it.
type OpenedDocument interface {
	Document
	Close() error
}

// DocumentRunner processes whole documents: open, per-page pipeline,
// cleaning pass, optional XLSX mirror, and ledger bookkeeping. Documents in
// a batch are handled one at a time, each fully finished (including its
// cleaning pass) before the next starts.
type DocumentRunner struct {
	Logger      *slog.Logger
	Processor   *Processor
	Ledger      *repository.RunLedger // optional
	RasterScale float64
	WriteXLSX   bool

	// OpenDocument, when set, replaces the MuPDF-backed opener.
	OpenDocument func(path string) (OpenedDocument, error)

	// OnOpen, when set, observes each successfully opened document before
	// its pages are processed. Used by the CLI to size progress output.
	OnOpen func(path string, pages int)
}

// DeriveOutputPath maps an input PDF path to its CSV output path: the file
// moves from the input directory to the output directory and the extension
// becomes a "_products.csv" suffix.
func DeriveOutputPath(pdfPath, outputDir string) string {
	base := filepath.Base(pdfPath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + "_products.csv"
	return filepath.Join(outputDir, base)
}

// RunFile processes one PDF end to end and writes the cleaned CSV to
// outputPath. Failure to open the document is fatal for this document only;
// callers running a batch log it and continue.
func (r *DocumentRunner) RunFile(ctx context.Context, pdfPath, outputPath string) (RunReport, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	report := RunReport{OutputPath: outputPath}

	runID, ledgerOK := r.beginLedger(ctx, pdfPath, outputPath)

	open := r.OpenDocument
	if open == nil {
		open = func(path string) (OpenedDocument, error) {
			return pdf.Open(path, r.RasterScale, logger)
		}
	}
	doc, err := open(pdfPath)
	if err != nil {
		r.finishLedger(ctx, ledgerOK, runID, repository.RunSummary{Error: err.Error()})
		return report, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logger.Warn("pdf.close_error", "path", pdfPath, "error", cerr)
		}
	}()

	if r.OnOpen != nil {
		r.OnOpen(pdfPath, doc.NumPages())
	}

	writer, err := export.NewCSVWriter(outputPath, logger)
	if err != nil {
		r.finishLedger(ctx, ledgerOK, runID, repository.RunSummary{Error: err.Error()})
		return report, err
	}

	sum, err := r.Processor.ProcessDocument(ctx, doc, writer)
	if cerr := writer.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close output csv: %w", cerr)
	}
	if err != nil {
		r.finishLedger(ctx, ledgerOK, runID, repository.RunSummary{
			Pages: sum.Pages, ProductPages: sum.ProductPages,
			RowsEmitted: sum.RowsEmitted, Error: err.Error(),
		})
		return report, err
	}

	cleanRes, err := export.Clean(outputPath, logger)
	if err != nil {
		r.finishLedger(ctx, ledgerOK, runID, repository.RunSummary{
			Pages: sum.Pages, ProductPages: sum.ProductPages,
			RowsEmitted: sum.RowsEmitted, Error: err.Error(),
		})
		return report, fmt.Errorf("clean output: %w", err)
	}

	if r.WriteXLSX {
		xlsxPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".xlsx"
		if xerr := export.WriteXLSX(outputPath, xlsxPath, logger); xerr != nil {
			// The CSV is the artifact of record; a failed mirror is only a warning.
			logger.Warn("export.xlsx.failed", "path", xlsxPath, "error", xerr)
		}
	}

	report.Pages = sum.Pages
	report.ProductPages = sum.ProductPages
	report.RowsEmitted = sum.RowsEmitted
	report.RowsKept = cleanRes.Kept
	report.DuplicatesRemoved = cleanRes.DuplicatesRemoved

	r.finishLedger(ctx, ledgerOK, runID, repository.RunSummary{
		Pages:             sum.Pages,
		ProductPages:      sum.ProductPages,
		RowsEmitted:       sum.RowsEmitted,
		RowsKept:          cleanRes.Kept,
		DuplicatesRemoved: cleanRes.DuplicatesRemoved,
	})
	return report, nil
}

func (r *DocumentRunner) beginLedger(ctx context.Context, pdfPath, outputPath string) (uuid.UUID, bool) {
	if r.Ledger == nil {
		return uuid.Nil, false
	}
	runID, err := r.Ledger.BeginRun(ctx, pdfPath, outputPath)
	if err != nil {
		r.logger().Warn("ledger.begin_failed", "pdf", pdfPath, "error", err)
		return uuid.Nil, false
	}
	return runID, true
}

func (r *DocumentRunner) finishLedger(ctx context.Context, ok bool, id uuid.UUID, sum repository.RunSummary) {
	if !ok {
		return
	}
	if err := r.Ledger.FinishRun(ctx, id, sum); err != nil {
		r.logger().Warn("ledger.finish_failed", "error", err)
	}
}

func (r *DocumentRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
