package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielokoye/submittal-scan/internal/entity"
	"github.com/danielokoye/submittal-scan/internal/heuristics"
	"github.com/danielokoye/submittal-scan/internal/imaging"
	"github.com/danielokoye/submittal-scan/internal/llm"
	"github.com/danielokoye/submittal-scan/internal/pdf"
)

// Document is the slice of the PDF adapter the processor depends on.
type Document interface {
	Path() string
	NumPages() int
	PageText(page int) (string, error)
	RenderPage(page int) ([]byte, error)
}

// RowSink receives rows as soon as a page completes, so partial output
// survives a crash mid-document.
type RowSink interface {
	Append(rows []entity.ProductRow) error
}

// PageStatus is the terminal state of one page's pass through the pipeline.
type PageStatus string

const (
	PageSkipped    PageStatus = "skipped"     // text heuristics dropped the page
	PageNotProduct PageStatus = "not_product" // classifier said no
	PageExtracted  PageStatus = "extracted"   // rows emitted
	PageFailed     PageStatus = "failed"      // render/model/sink failure, zero rows
)

// PageResult reports what happened to a single page.
type PageResult struct {
	Page   int // 1-based
	Status PageStatus
	Reason heuristics.SkipReason
	Rows   []entity.ProductRow
	Err    error
}

// Summary aggregates a whole document run.
type Summary struct {
	Pages        int
	ProductPages int
	RowsEmitted  int
	Skipped      int
	Failed       int
}

// Config holds per-page processing knobs for the processor.
type Config struct {
	CropPercentage int // top slice handed to the extractor, default 30
}

// Processor sequences the per-page decision pipeline: skip heuristics,
// rasterize, classify, crop, extract, emit. Pages are processed strictly in
// ascending order, one at a time; both model calls for a page are
// sequential and the extractor call is skipped when the classifier says no.
type Processor struct {
	Logger     *slog.Logger
	Cfg        Config
	Classifier llm.PageClassifier
	Extractor  llm.ProductExtractor

	// OnPage, when set, observes every page result. Used by the CLI for
	// progress output; failures in the observer are the observer's problem.
	OnPage func(PageResult)
}

func NewProcessor(logger *slog.Logger, cfg Config, classifier llm.PageClassifier, extractor llm.ProductExtractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CropPercentage <= 0 || cfg.CropPercentage > 100 {
		cfg.CropPercentage = 30
	}
	return &Processor{
		Logger:     logger,
		Cfg:        cfg,
		Classifier: classifier,
		Extractor:  extractor,
	}
}

// ProcessDocument walks every page of doc in order, appending emitted rows
// to sink page by page. A failing page contributes zero rows and does not
// abort the document; the only errors returned are context cancellation and
// sink write failures.
func (p *Processor) ProcessDocument(ctx context.Context, doc Document, sink RowSink) (Summary, error) {
	var sum Summary
	sum.Pages = doc.NumPages()

	p.Logger.Info("pipeline.document.start", "path", doc.Path(), "pages", sum.Pages)

	for page := 0; page < sum.Pages; page++ {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		res := p.processPage(ctx, doc, page)

		switch res.Status {
		case PageSkipped:
			sum.Skipped++
			p.Logger.Info("pipeline.page.skipped", "page", res.Page, "reason", string(res.Reason))
		case PageNotProduct:
			p.Logger.Info("pipeline.page.not_product", "page", res.Page)
		case PageFailed:
			sum.Failed++
			p.Logger.Error("pipeline.page.failed", "page", res.Page, "error", res.Err)
		case PageExtracted:
			sum.ProductPages++
			if err := sink.Append(res.Rows); err != nil {
				return sum, fmt.Errorf("append rows for page %d: %w", res.Page, err)
			}
			sum.RowsEmitted += len(res.Rows)
			for _, row := range res.Rows {
				p.Logger.Info("pipeline.page.product",
					"page", res.Page,
					"product", row.ProductName,
					"manufacturer", row.Manufacturer,
				)
			}
		}

		if p.OnPage != nil {
			p.OnPage(res)
		}
	}

	p.Logger.Info("pipeline.document.done",
		"path", doc.Path(),
		"pages", sum.Pages,
		"product_pages", sum.ProductPages,
		"rows", sum.RowsEmitted,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)
	return sum, nil
}

// processPage runs one page through the state machine. Expected skip paths
// and real failures are distinguished in the result rather than by error
// values.
func (p *Processor) processPage(ctx context.Context, doc Document, page int) PageResult {
	res := PageResult{Page: page + 1}

	text, err := doc.PageText(page)
	if err != nil {
		res.Status = PageFailed
		res.Err = fmt.Errorf("page text: %w", err)
		return res
	}

	if decision := heuristics.Evaluate(text); decision.Skip {
		res.Status = PageSkipped
		res.Reason = decision.Reason
		return res
	}

	pngBytes, err := doc.RenderPage(page)
	if err != nil {
		res.Status = PageFailed
		res.Err = fmt.Errorf("rasterize: %w", err)
		return res
	}

	isProduct, err := p.Classifier.IsProductPage(ctx, pdf.EncodeBase64(pngBytes))
	if err != nil {
		res.Status = PageFailed
		res.Err = fmt.Errorf("classify: %w", err)
		return res
	}
	if !isProduct {
		res.Status = PageNotProduct
		return res
	}

	cropped, err := imaging.CropTop(pngBytes, p.Cfg.CropPercentage)
	if err != nil {
		res.Status = PageFailed
		res.Err = fmt.Errorf("crop: %w", err)
		return res
	}

	info, err := p.Extractor.ExtractProductInfo(ctx, pdf.EncodeBase64(cropped))
	if err != nil {
		res.Status = PageFailed
		res.Err = fmt.Errorf("extract: %w", err)
		return res
	}

	rows := make([]entity.ProductRow, 0, len(info.Products))
	for _, product := range info.Products {
		rows = append(rows, entity.ProductRow{
			ProductName:  product,
			Manufacturer: info.Manufacturer,
			PageNumber:   res.Page,
		})
	}
	res.Status = PageExtracted
	res.Rows = rows
	return res
}
