package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store    StoreConfig
	OCR      OCRConfig
	Embed    EmbedConfig
	LLM      LLMConfig
	Sampling SamplingConfig
	Triage   TriageConfig
}

// StoreConfig holds vector-store configuration. SQLitePath is used unless a
// Postgres DSN is set.
type StoreConfig struct {
	SQLitePath  string
	PostgresDSN string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm  string
	Tesseract string
	Language  string
	DPI       int
}

// EmbedConfig holds embedding-backend configuration
type EmbedConfig struct {
	OllamaURL string
	Model     string
	Timeout   time.Duration
}

// LLMConfig holds classification/rename LLM configuration
type LLMConfig struct {
	OllamaURL  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// SamplingConfig holds page-sampling defaults
type SamplingConfig struct {
	MaxPages int
	Strategy string
}

// TriageConfig holds batch-driver configuration
type TriageConfig struct {
	Workers     int
	RatePerSec  float64
	MaxTextSize int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			SQLitePath:  getEnv("STORE_SQLITE_PATH", "./documents.db"),
			PostgresDSN: getEnv("STORE_POSTGRES_DSN", ""),
		},
		OCR: OCRConfig{
			Pdftoppm:  getEnv("OCR_PDFTOPPM", "pdftoppm"),
			Tesseract: getEnv("OCR_TESSERACT", "tesseract"),
			Language:  getEnv("OCR_LANG", "swe"),
			DPI:       getEnvAsInt("OCR_DPI", 300),
		},
		Embed: EmbedConfig{
			OllamaURL: getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model:     getEnv("EMBED_MODEL", "nomic-embed-text"),
			Timeout:   getEnvAsDuration("EMBED_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			OllamaURL:  getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model:      getEnv("LLM_MODEL", "llama3"),
			Timeout:    getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			MaxRetries: getEnvAsInt("LLM_MAX_RETRIES", 2),
		},
		Sampling: SamplingConfig{
			MaxPages: getEnvAsInt("SAMPLING_MAX_PAGES", 0),
			Strategy: getEnv("SAMPLING_STRATEGY", "linear"),
		},
		Triage: TriageConfig{
			Workers:     getEnvAsInt("TRIAGE_WORKERS", 4),
			RatePerSec:  getEnvAsFloat64("TRIAGE_RATE_PER_SEC", 2),
			MaxTextSize: getEnvAsInt("TRIAGE_MAX_TEXT", 3000),
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
	if c.Store.SQLitePath == "" && c.Store.PostgresDSN == "" {
		return NewAppError("CONFIG_ERROR", "one of STORE_SQLITE_PATH or STORE_POSTGRES_DSN is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.Triage.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "TRIAGE_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
