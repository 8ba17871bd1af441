package llm

import "strings"

const (
	manufacturerPrefix = "Manufacturer:"
	productPrefix      = "Product:"
)

// LineParser implements the line-prefix response contract: the model is
// asked to answer with one "Manufacturer:" line and one or more "Product:"
// lines. Anything else is ignored.
type LineParser struct{}

// Parse scans the response line by line. The last Manufacturer line wins;
// Product lines are collected in order of appearance, keeping duplicates.
// A literal "Unknown" product is dropped, and if nothing remains the
// sentinel is backfilled so Products is never empty. Lines matching neither
// prefix, blank lines, and surrounding whitespace are all tolerated.
func (LineParser) Parse(raw string) (ExtractionResult, error) {
	manufacturer := UnknownField
	var products []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, manufacturerPrefix):
			manufacturer = strings.TrimSpace(strings.TrimPrefix(line, manufacturerPrefix))
		case strings.HasPrefix(line, productPrefix):
			product := strings.TrimSpace(strings.TrimPrefix(line, productPrefix))
			if product != UnknownField {
				products = append(products, product)
			}
		}
	}

	if len(products) == 0 {
		products = []string{UnknownField}
	}
	return ExtractionResult{Manufacturer: manufacturer, Products: products}, nil
}
