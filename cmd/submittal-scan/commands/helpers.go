package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danielokoye/submittal-scan/cmd/submittal-scan/ui"
	"github.com/danielokoye/submittal-scan/internal/common"
	"github.com/danielokoye/submittal-scan/internal/llm"
	"github.com/danielokoye/submittal-scan/internal/llm/openai"
	"github.com/danielokoye/submittal-scan/internal/pipeline"
	"github.com/danielokoye/submittal-scan/internal/repository"
)

// newRunner wires the model client, page processor, and run ledger into a
// document runner. The returned cleanup closes the ledger.
func newRunner(ctx context.Context, writeXLSX bool) (*pipeline.DocumentRunner, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := slog.Default()

	var parser llm.ResponseParser
	if jsonOutput {
		parser = llm.SchemaParser{}
	}
	client := openai.NewClient(openai.Config{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		ClassifyMaxTokens: cfg.LLM.ClassifyMaxTokens,
		ExtractMaxTokens:  cfg.LLM.ExtractMaxTokens,
	}, parser, logger)

	processor := pipeline.NewProcessor(logger, pipeline.Config{
		CropPercentage: cfg.Pipeline.CropPercentage,
	}, client, client)
	processor.OnPage = reportPage

	// The ledger is bookkeeping; a broken ledger never blocks processing.
	ledger, err := repository.OpenRunLedger(ctx, cfg.Paths.LedgerPath, logger)
	if err != nil {
		logger.Warn("ledger.open_failed", "path", cfg.Paths.LedgerPath, "error", err)
		ledger = nil
	}

	runner := &pipeline.DocumentRunner{
		Logger:      logger,
		Processor:   processor,
		Ledger:      ledger,
		RasterScale: cfg.Pipeline.RasterScale,
		WriteXLSX:   writeXLSX,
		OnOpen: func(path string, pages int) {
			pageBar = ui.NewProgressBar(int64(pages), filepath.Base(path))
		},
	}
	cleanup := func() {
		if ledger != nil {
			_ = ledger.Close()
		}
	}
	return runner, cleanup, nil
}

// pageBar tracks page progress through the current document. Processing is
// strictly sequential, so one bar at a time is enough.
var pageBar *ui.ProgressBar

// reportPage advances the page bar and prints one line per interesting
// page outcome.
func reportPage(res pipeline.PageResult) {
	if pageBar != nil {
		pageBar.Add(1)
	}
	switch res.Status {
	case pipeline.PageSkipped:
		ui.Detail("page %d skipped: %s", res.Page, res.Reason)
	case pipeline.PageFailed:
		ui.Error("page %d failed: %v", res.Page, res.Err)
	case pipeline.PageExtracted:
		for _, row := range res.Rows {
			ui.Success("page %d: %s - %s", res.Page, row.Manufacturer, row.ProductName)
		}
	}
}

// listPDFs merges the configured document list with the PDFs found in the
// input directory, preserving list order and dropping duplicates.
func listPDFs(cfg *common.Config) ([]string, error) {
	docs, err := common.LoadDocuments(cfg.Paths.DocumentsFile)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(docs))
	var pdfs []string
	for _, doc := range docs {
		if !seen[doc] {
			seen[doc] = true
			pdfs = append(pdfs, doc)
		}
	}

	entries, err := os.ReadDir(cfg.Paths.InputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return pdfs, nil
		}
		return nil, err
	}
	var scanned []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(cfg.Paths.InputDir, entry.Name())
		if !seen[path] {
			seen[path] = true
			scanned = append(scanned, path)
		}
	}
	sort.Strings(scanned)
	return append(pdfs, scanned...), nil
}

// processFiles runs each PDF through the pipeline in turn. A document that
// fails is reported and the batch moves on.
func processFiles(ctx context.Context, runner *pipeline.DocumentRunner, files []string) error {
	failed := 0
	for _, pdfPath := range files {
		outputPath := pipeline.DeriveOutputPath(pdfPath, cfg.Paths.OutputDir)
		ui.Message("Processing %s", pdfPath)

		report, err := runner.RunFile(ctx, pdfPath, outputPath)
		if pageBar != nil {
			pageBar.Finish()
			pageBar = nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			ui.Error("%s: %v", pdfPath, err)
		} else {
			ui.Success("%s: %d product(s) from %d page(s), %d duplicate(s) removed -> %s",
				filepath.Base(pdfPath), report.RowsKept, report.Pages,
				report.DuplicatesRemoved, report.OutputPath)
		}
		ui.Newline()
	}

	if failed > 0 {
		ui.Warning("%d of %d document(s) failed", failed, len(files))
	}
	return nil
}
