package llm

// BuildProductJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map for the schema-constrained extractor response format.
func BuildProductJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"manufacturer": map[string]any{"type": "string", "minLength": 1},
			"products": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
		},
		"required": []string{"manufacturer", "products"},
	}
}
