package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Paths    PathsConfig
}

// LLMConfig holds model-endpoint configuration
type LLMConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	ClassifyMaxTokens int
	ExtractMaxTokens  int
}

// PipelineConfig holds per-page processing knobs
type PipelineConfig struct {
	CropPercentage int     // top slice of the page handed to the extractor call
	RasterScale    float64 // linear magnification applied in both axes
}

// PathsConfig holds filesystem locations
type PathsConfig struct {
	InputDir      string
	OutputDir     string
	LedgerPath    string
	DocumentsFile string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			APIKey:            getEnv("OPEN_AI_API_KEY", ""),
			BaseURL:           getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:             getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:           getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			ClassifyMaxTokens: getEnvAsInt("CLASSIFY_MAX_TOKENS", 10),
			ExtractMaxTokens:  getEnvAsInt("EXTRACT_MAX_TOKENS", 200),
		},
		Pipeline: PipelineConfig{
			CropPercentage: getEnvAsInt("CROP_PERCENTAGE", 30),
			RasterScale:    getEnvAsFloat64("RASTER_SCALE", 2.0),
		},
		Paths: PathsConfig{
			InputDir:      getEnv("INPUT_DIR", "input"),
			OutputDir:     getEnv("OUTPUT_DIR", "results"),
			LedgerPath:    getEnv("LEDGER_PATH", "results/runs.db"),
			DocumentsFile: getEnv("DOCUMENTS_FILE", "documents.yaml"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPEN_AI_API_KEY is required", ErrInvalidInput)
	}
	if c.Pipeline.CropPercentage <= 0 || c.Pipeline.CropPercentage > 100 {
		return NewAppError("CONFIG_ERROR", "CROP_PERCENTAGE must be in (0,100]", ErrInvalidInput)
	}
	if c.Pipeline.RasterScale <= 0 {
		return NewAppError("CONFIG_ERROR", "RASTER_SCALE must be positive", ErrInvalidInput)
	}
	return nil
}
