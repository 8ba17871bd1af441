package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaParser parses the JSON extractor response format
// {"manufacturer": "...", "products": ["...", ...]} and validates it against
// the product schema before accepting it. It is a drop-in ResponseParser for
// deployments that switch the extractor prompt to structured output.
type SchemaParser struct{}

func (SchemaParser) Parse(raw string) (ExtractionResult, error) {
	content := strings.TrimSpace(raw)
	// Models occasionally wrap JSON in a markdown code fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if err := ValidateJSONAgainstSchema(BuildProductJSONSchema(), []byte(content)); err != nil {
		return ExtractionResult{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var out struct {
		Manufacturer string   `json:"manufacturer"`
		Products     []string `json:"products"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return ExtractionResult{}, fmt.Errorf("unmarshal extraction: %w", err)
	}

	products := make([]string, 0, len(out.Products))
	for _, p := range out.Products {
		p = strings.TrimSpace(p)
		if p != "" && p != UnknownField {
			products = append(products, p)
		}
	}
	if len(products) == 0 {
		products = []string{UnknownField}
	}
	manufacturer := strings.TrimSpace(out.Manufacturer)
	if manufacturer == "" {
		manufacturer = UnknownField
	}
	return ExtractionResult{Manufacturer: manufacturer, Products: products}, nil
}
