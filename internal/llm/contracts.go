package llm

import "context"

// UnknownField is the sentinel the model is asked to return when it cannot
// identify a manufacturer or product name.
const UnknownField = "Unknown"

// ExtractionResult is the normalized shape we want from the extractor call.
// Products is never empty; a page with no identifiable products carries the
// single sentinel value.
type ExtractionResult struct {
	Manufacturer string
	Products     []string
}

// PageClassifier answers whether a full-page image shows a product page.
type PageClassifier interface {
	IsProductPage(ctx context.Context, imageBase64 string) (bool, error)
}

// ProductExtractor reads manufacturer/product names from the cropped top
// region of a product page.
type ProductExtractor interface {
	ExtractProductInfo(ctx context.Context, imageBase64 string) (ExtractionResult, error)
}

// ResponseParser turns a raw extractor response into an ExtractionResult.
// The pipeline only depends on this narrow interface so the line-prefix
// contract can later be swapped for a schema-constrained format without
// touching the orchestrator.
type ResponseParser interface {
	Parse(raw string) (ExtractionResult, error)
}
