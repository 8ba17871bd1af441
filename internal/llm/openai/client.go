package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielokoye/submittal-scan/internal/llm"
)

const classifyPrompt = `Is this page a product page? Look for:
- Product diagrams or images

Return exactly 'yes' if this is a product page, 'no' if it is not.`

const extractLinePrompt = `Look at the top portion of this product page and identify:
1. The manufacturer name (usually the largest text at the top)
2. The product name(s) (usually the second largest text)

If the product name is not noticeably larger it is not the product name so return 'Unknown' for the product name.

If there are multiple products on the page, return them all as one product. So if it says A & B, return both in A & B format.

Return the information in this exact format, with each product on its own line:
Manufacturer: [name]
Product: [name1] or Product: [name1] & [name2] etc.

Include only alphanumeric characters and spaces in the product and manufacturer names.
If you can't identify either, use 'Unknown' for that field.`

const extractJSONPrompt = `Look at the top portion of this product page and identify:
1. The manufacturer name (usually the largest text at the top)
2. The product name(s) (usually the second largest text)

If the product name is not noticeably larger it is not the product name so return 'Unknown' for the product name.

Return only a JSON object in exactly this shape, with no surrounding prose or code fences:
{"manufacturer": "name", "products": ["name1", "name2"]}

Include only alphanumeric characters and spaces in the product and manufacturer names.
If you can't identify either, use 'Unknown' for that field.`

// message shapes for mixed text+image chat completions.
type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// IsProductPage implements llm.PageClassifier with a single terse yes/no
// prompt over the full-page image. Anything other than an exact "yes"
// (after trim, case-insensitive) counts as "no".
func (c *Client) IsProductPage(ctx context.Context, imageBase64 string) (bool, error) {
	content, err := c.complete(ctx, "classify", classifyPrompt, imageBase64, c.cfg.ClassifyMaxTokens)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(content), "yes"), nil
}

// ExtractProductInfo implements llm.ProductExtractor over the cropped top
// region of a page. Response interpretation is delegated to the configured
// parser; the prompt asks for the format that parser expects.
func (c *Client) ExtractProductInfo(ctx context.Context, imageBase64 string) (llm.ExtractionResult, error) {
	content, err := c.complete(ctx, "extract", c.extractPrompt, imageBase64, c.cfg.ExtractMaxTokens)
	if err != nil {
		return llm.ExtractionResult{}, err
	}
	result, err := c.parser.Parse(content)
	if err != nil {
		return llm.ExtractionResult{}, fmt.Errorf("parse extractor response: %w", err)
	}
	return result, nil
}

// complete sends one text+image user message and returns the assistant text.
func (c *Client) complete(ctx context.Context, op, prompt, imageBase64 string, maxTokens int) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm."+op+".start",
		"req_id", rid,
		"model", c.cfg.Model,
		"image_b64_len", len(imageBase64),
		"max_tokens", maxTokens,
	)

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []message{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageURL{
						URL: "data:image/png;base64," + imageBase64,
					}},
				},
			},
		},
		"max_tokens": maxTokens,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, err := llm.PostJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm."+op+".http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm."+op+".decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm."+op+".no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in openai response")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.log.Info("llm."+op+".ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
