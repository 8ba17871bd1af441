package heuristics

import "strings"

// SkipReason explains why a page was dropped before any image work.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipSubmittalNoModel SkipReason = "contains 'submittal' but no 'model'"
	SkipBOM              SkipReason = "contains 'Bill of Material' or 'BOM'"
)

// Decision is the outcome of the text heuristic filter for one page.
type Decision struct {
	Skip   bool
	Reason SkipReason
}

// Evaluate decides from a page's plain text whether the page should be
// skipped before rasterization. Matching is case-insensitive substring.
//
// A page is skipped when it mentions a submittal without any model
// reference, or when it looks like a bill of material. When both hold,
// the reported reason is BOM.
func Evaluate(pageText string) Decision {
	text := strings.ToLower(pageText)

	hasSubmittal := strings.Contains(text, "submittal")
	hasModel := strings.Contains(text, "model")
	hasBOM := strings.Contains(text, "bill of material") || strings.Contains(text, "bom")

	if !((hasSubmittal && !hasModel) || hasBOM) {
		return Decision{}
	}

	// BOM takes precedence in the reported reason even when the
	// submittal rule also fired.
	if hasBOM {
		return Decision{Skip: true, Reason: SkipBOM}
	}
	return Decision{Skip: true, Reason: SkipSubmittalNoModel}
}
