// Package llm holds the Ollama client plus the lenient JSON handling needed
// to turn free-form model output into classification and bibliographic
// decisions.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Config carries the knobs for the generate endpoint. Zero values get
// sensible defaults in NewClient.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries uint64
}

// Client talks to an Ollama server's /api/generate endpoint in JSON mode.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Generate sends a prompt and returns the model's response text. Transport
// failures are retried with exponential backoff; a 2xx answer whose body we
// cannot decode is not retried here, the caller's parsing layer deals with it.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":  c.cfg.Model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var responseText string
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		raw, _, err := SendJSON(ctx, c.client, c.cfg.BaseURL+"/api/generate", body, nil, c.logger)
		if err != nil {
			return retry.RetryableError(err)
		}
		var parsed struct {
			Response string `json:"response"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return fmt.Errorf("decode generate response: %w", err)
		}
		responseText = parsed.Response
		return nil
	})
	if err != nil {
		return "", err
	}
	return responseText, nil
}
