package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielokoye/submittal-scan/internal/entity"
	"github.com/danielokoye/submittal-scan/internal/heuristics"
	"github.com/danielokoye/submittal-scan/internal/llm"
)

func pagePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 40))))
	return buf.Bytes()
}

type fakePage struct {
	text      string
	renderErr error
	textErr   error
}

type fakeDocument struct {
	t     *testing.T
	pages []fakePage
}

func (d *fakeDocument) Path() string  { return "testdata/fake.pdf" }
func (d *fakeDocument) NumPages() int { return len(d.pages) }

func (d *fakeDocument) PageText(page int) (string, error) {
	return d.pages[page].text, d.pages[page].textErr
}

func (d *fakeDocument) RenderPage(page int) ([]byte, error) {
	if err := d.pages[page].renderErr; err != nil {
		return nil, err
	}
	return pagePNG(d.t), nil
}

type fakeClassifier struct {
	answers map[int]bool // keyed by call order, 0-based
	err     error
	calls   int
}

func (c *fakeClassifier) IsProductPage(ctx context.Context, imageBase64 string) (bool, error) {
	defer func() { c.calls++ }()
	if c.err != nil {
		return false, c.err
	}
	return c.answers[c.calls], nil
}

type fakeExtractor struct {
	result llm.ExtractionResult
	err    error
	calls  int
}

func (e *fakeExtractor) ExtractProductInfo(ctx context.Context, imageBase64 string) (llm.ExtractionResult, error) {
	e.calls++
	if e.err != nil {
		return llm.ExtractionResult{}, e.err
	}
	return e.result, nil
}

type memSink struct {
	rows    []entity.ProductRow
	appends int
	err     error
}

func (s *memSink) Append(rows []entity.ProductRow) error {
	if s.err != nil {
		return s.err
	}
	s.appends++
	s.rows = append(s.rows, rows...)
	return nil
}

func TestProcessDocumentThreePages(t *testing.T) {
	// Page 1 trips the BOM heuristic, page 2 classifies as non-product,
	// page 3 is a product page with a single extracted product.
	doc := &fakeDocument{t: t, pages: []fakePage{
		{text: "Bill of Material\nQty Item"},
		{text: "Installation notes for model piping"},
		{text: "Series 90 model datasheet"},
	}}
	classifier := &fakeClassifier{answers: map[int]bool{0: false, 1: true}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{
		Manufacturer: "Acme Corp",
		Products:     []string{"Widget"},
	}}
	sink := &memSink{}

	var results []PageResult
	p := NewProcessor(nil, Config{}, classifier, extractor)
	p.OnPage = func(r PageResult) { results = append(results, r) }

	sum, err := p.ProcessDocument(context.Background(), doc, sink)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Pages)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.ProductPages)
	assert.Equal(t, 1, sum.RowsEmitted)
	assert.Equal(t, 0, sum.Failed)

	require.Len(t, sink.rows, 1)
	assert.Equal(t, entity.ProductRow{ProductName: "Widget", Manufacturer: "Acme Corp", PageNumber: 3}, sink.rows[0])

	require.Len(t, results, 3)
	assert.Equal(t, PageSkipped, results[0].Status)
	assert.Equal(t, heuristics.SkipBOM, results[0].Reason)
	assert.Equal(t, PageNotProduct, results[1].Status)
	assert.Equal(t, PageExtracted, results[2].Status)

	// Skipped page never reached the classifier; non-product page never
	// reached the extractor.
	assert.Equal(t, 2, classifier.calls)
	assert.Equal(t, 1, extractor.calls)
}

func TestProcessDocumentMultiProductPage(t *testing.T) {
	doc := &fakeDocument{t: t, pages: []fakePage{{text: "model page"}}}
	classifier := &fakeClassifier{answers: map[int]bool{0: true}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{
		Manufacturer: "Victaulic",
		Products:     []string{"FireLock", "QuickVic"},
	}}
	sink := &memSink{}

	sum, err := NewProcessor(nil, Config{}, classifier, extractor).
		ProcessDocument(context.Background(), doc, sink)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.RowsEmitted)
	require.Len(t, sink.rows, 2)
	for _, row := range sink.rows {
		assert.Equal(t, "Victaulic", row.Manufacturer)
		assert.Equal(t, 1, row.PageNumber)
	}
}

func TestProcessDocumentPageFailureContinues(t *testing.T) {
	doc := &fakeDocument{t: t, pages: []fakePage{
		{text: "broken page", renderErr: errors.New("corrupt page stream")},
		{text: "good model page"},
	}}
	classifier := &fakeClassifier{answers: map[int]bool{0: true}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{
		Manufacturer: "Acme",
		Products:     []string{"Gadget"},
	}}
	sink := &memSink{}

	sum, err := NewProcessor(nil, Config{}, classifier, extractor).
		ProcessDocument(context.Background(), doc, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.RowsEmitted)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, 2, sink.rows[0].PageNumber)
}

func TestProcessDocumentClassifierErrorIsPageFailure(t *testing.T) {
	doc := &fakeDocument{t: t, pages: []fakePage{{text: "model page"}}}
	classifier := &fakeClassifier{err: errors.New("endpoint unavailable")}
	sink := &memSink{}

	sum, err := NewProcessor(nil, Config{}, classifier, &fakeExtractor{}).
		ProcessDocument(context.Background(), doc, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Failed)
	assert.Empty(t, sink.rows)
}

func TestProcessDocumentExtractorErrorIsPageFailure(t *testing.T) {
	doc := &fakeDocument{t: t, pages: []fakePage{{text: "model page"}}}
	classifier := &fakeClassifier{answers: map[int]bool{0: true}}
	extractor := &fakeExtractor{err: errors.New("malformed response")}
	sink := &memSink{}

	sum, err := NewProcessor(nil, Config{}, classifier, extractor).
		ProcessDocument(context.Background(), doc, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, extractor.calls)
	assert.Empty(t, sink.rows)
}

func TestProcessDocumentSinkErrorAborts(t *testing.T) {
	doc := &fakeDocument{t: t, pages: []fakePage{{text: "model page"}}}
	classifier := &fakeClassifier{answers: map[int]bool{0: true}}
	extractor := &fakeExtractor{result: llm.ExtractionResult{
		Manufacturer: "Acme",
		Products:     []string{"Widget"},
	}}
	sink := &memSink{err: fmt.Errorf("disk full")}

	_, err := NewProcessor(nil, Config{}, classifier, extractor).
		ProcessDocument(context.Background(), doc, sink)
	require.Error(t, err)
}

func TestProcessDocumentContextCancelled(t *testing.T) {
	doc := &fakeDocument{t: t, pages: []fakePage{{text: "a"}, {text: "b"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProcessor(nil, Config{}, &fakeClassifier{}, &fakeExtractor{}).
		ProcessDocument(ctx, doc, &memSink{})
	require.ErrorIs(t, err, context.Canceled)
}
