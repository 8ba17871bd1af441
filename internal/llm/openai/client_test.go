package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielokoye/submittal-scan/internal/llm"
)

// stubEndpoint returns a chat-completions server that always answers with
// the given assistant content, capturing the last request body.
func stubEndpoint(t *testing.T, content string, lastBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastBody != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			*lastBody = body
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o-mini",
	}, nil, nil)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil, nil)
	if c.cfg.Model != "gpt-4o-mini" {
		t.Errorf("default model: got %s", c.cfg.Model)
	}
	if c.cfg.ClassifyMaxTokens != 10 || c.cfg.ExtractMaxTokens != 200 {
		t.Errorf("default token bounds: got %d/%d", c.cfg.ClassifyMaxTokens, c.cfg.ExtractMaxTokens)
	}
	if _, ok := c.parser.(llm.LineParser); !ok {
		t.Errorf("default parser should be the line parser, got %T", c.parser)
	}
}

func TestIsProductPage(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{name: "exact yes", response: "yes", want: true},
		{name: "capitalized yes", response: "Yes", want: true},
		{name: "yes with surrounding whitespace", response: "  yes \n", want: true},
		{name: "no", response: "no", want: false},
		{name: "yes with trailing words is not yes", response: "Yes, it is", want: false},
		{name: "unrelated answer", response: "this page shows a cover sheet", want: false},
		{name: "empty response", response: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := stubEndpoint(t, tt.response, nil)
			defer srv.Close()

			got, err := newTestClient(srv.URL).IsProductPage(context.Background(), "aW1n")
			if err != nil {
				t.Fatalf("IsProductPage: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsProductPageRequestShape(t *testing.T) {
	var body map[string]any
	srv := stubEndpoint(t, "yes", &body)
	defer srv.Close()

	if _, err := newTestClient(srv.URL).IsProductPage(context.Background(), "aW1n"); err != nil {
		t.Fatalf("IsProductPage: %v", err)
	}

	if body["model"] != "gpt-4o-mini" {
		t.Errorf("model: got %v", body["model"])
	}
	if body["max_tokens"] != float64(10) {
		t.Errorf("max_tokens: got %v, want 10", body["max_tokens"])
	}

	msgs := body["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].([]any)
	img := content[1].(map[string]any)["image_url"].(map[string]any)
	if img["url"] != "data:image/png;base64,aW1n" {
		t.Errorf("image url: got %v", img["url"])
	}
}

func TestExtractProductInfo(t *testing.T) {
	srv := stubEndpoint(t, "Manufacturer: Acme Corp\nProduct: Widget\nProduct: Gadget", nil)
	defer srv.Close()

	got, err := newTestClient(srv.URL).ExtractProductInfo(context.Background(), "aW1n")
	if err != nil {
		t.Fatalf("ExtractProductInfo: %v", err)
	}
	if got.Manufacturer != "Acme Corp" {
		t.Errorf("Manufacturer: got %q", got.Manufacturer)
	}
	if len(got.Products) != 2 || got.Products[0] != "Widget" || got.Products[1] != "Gadget" {
		t.Errorf("Products: got %v", got.Products)
	}
}

func TestExtractProductInfoSchemaParser(t *testing.T) {
	var body map[string]any
	srv := stubEndpoint(t, `{"manufacturer": "Acme Corp", "products": ["Widget", "Gadget"]}`, &body)
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, llm.SchemaParser{}, nil)

	got, err := c.ExtractProductInfo(context.Background(), "aW1n")
	if err != nil {
		t.Fatalf("ExtractProductInfo: %v", err)
	}
	if got.Manufacturer != "Acme Corp" {
		t.Errorf("Manufacturer: got %q", got.Manufacturer)
	}
	if len(got.Products) != 2 || got.Products[0] != "Widget" || got.Products[1] != "Gadget" {
		t.Errorf("Products: got %v", got.Products)
	}

	// The prompt must request the format the configured parser accepts.
	msgs := body["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].([]any)
	prompt := content[0].(map[string]any)["text"].(string)
	if !strings.Contains(prompt, `{"manufacturer": "name", "products": ["name1", "name2"]}`) {
		t.Errorf("schema parser client sent a non-JSON prompt: %q", prompt)
	}
	if strings.Contains(prompt, "Manufacturer: [name]") {
		t.Errorf("schema parser client still asks for labeled lines: %q", prompt)
	}
}

func TestExtractPromptFollowsParser(t *testing.T) {
	line := NewClient(Config{APIKey: "k"}, nil, nil)
	if line.extractPrompt != extractLinePrompt {
		t.Error("default client should use the line-format prompt")
	}
	schema := NewClient(Config{APIKey: "k"}, llm.SchemaParser{}, nil)
	if schema.extractPrompt != extractJSONPrompt {
		t.Error("schema parser client should use the JSON prompt")
	}
}

func TestCompleteEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).IsProductPage(context.Background(), "aW1n"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).IsProductPage(context.Background(), "aW1n"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
