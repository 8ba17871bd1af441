package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielokoye/submittal-scan/internal/llm"
)

// Config for the OpenAI client.
type Config struct {
	APIKey            string        // if empty, falls back to env OPEN_AI_API_KEY
	BaseURL           string        // default https://api.openai.com/v1
	Model             string        // e.g., "gpt-4o-mini"
	Timeout           time.Duration // http client timeout
	ClassifyMaxTokens int           // response bound for the yes/no call
	ExtractMaxTokens  int           // response bound for the extractor call
}

type Client struct {
	cfg           Config
	httpClient    *http.Client
	parser        llm.ResponseParser
	extractPrompt string
	log           *slog.Logger
}

// NewClient builds a vision-capable chat-completions client. The parser
// decides how extractor responses are interpreted; nil selects the
// line-prefix contract.
func NewClient(cfg Config, parser llm.ResponseParser, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPEN_AI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.ClassifyMaxTokens <= 0 {
		cfg.ClassifyMaxTokens = 10
	}
	if cfg.ExtractMaxTokens <= 0 {
		cfg.ExtractMaxTokens = 200
	}
	if parser == nil {
		parser = llm.LineParser{}
	}
	// The prompt and the parser form one contract: the schema parser needs
	// the model to answer in JSON, the line parser needs labeled lines.
	extractPrompt := extractLinePrompt
	if _, ok := parser.(llm.SchemaParser); ok {
		extractPrompt = extractJSONPrompt
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:           cfg,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		parser:        parser,
		extractPrompt: extractPrompt,
		log:           logger,
	}
}
