package pdf

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/gen2brain/go-fitz"

	"github.com/danielokoye/submittal-scan/internal/common"
)

// pdfBaseDPI is the PDF point resolution; rendering at scale*pdfBaseDPI
// gives a linear magnification of scale in both axes.
const pdfBaseDPI = 72.0

// Document wraps a MuPDF document handle with the two per-page capabilities
// the pipeline needs: plain text extraction and high-resolution rasterization.
type Document struct {
	doc    *fitz.Document
	path   string
	scale  float64
	logger *slog.Logger
}

// Open opens a PDF for processing. Failure here is fatal for this document
// only; batch callers log and move to the next file.
func Open(path string, scale float64, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if scale <= 0 {
		scale = 2.0
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, common.NewAppError("PDF_OPEN_ERROR", fmt.Sprintf("open %s", path), err)
	}
	logger.Info("pdf.open.ok", "path", path, "pages", doc.NumPage())
	return &Document{doc: doc, path: path, scale: scale, logger: logger}, nil
}

// Path returns the source path the document was opened from.
func (d *Document) Path() string { return d.path }

// NumPages returns the page count.
func (d *Document) NumPages() int { return d.doc.NumPage() }

// PageText extracts the plain text of a zero-based page, used by the skip
// heuristics before any image work.
func (d *Document) PageText(page int) (string, error) {
	text, err := d.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("extract text for page %d: %w", page+1, err)
	}
	return text, nil
}

// RenderPage rasterizes a zero-based page as PNG bytes at the document's
// fixed magnification.
func (d *Document) RenderPage(page int) ([]byte, error) {
	b, err := d.doc.ImagePNG(page, d.scale*pdfBaseDPI)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page+1, err)
	}
	return b, nil
}

// Close releases the underlying document handle.
func (d *Document) Close() error {
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}

// EncodeBase64 converts raw image bytes to the transport encoding used in
// data URIs sent to the model endpoint.
func EncodeBase64(imageBytes []byte) string {
	return base64.StdEncoding.EncodeToString(imageBytes)
}
