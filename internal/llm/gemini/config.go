// Package gemini implements the llm adapters against the Google
// generative-language API.
package gemini

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config for the Gemini client.
type Config struct {
	APIKey      string  // if empty, falls back to env GEMINI_API_KEY
	BaseURL     string  // default https://generativelanguage.googleapis.com/v1beta
	Model       string  // e.g. "gemini-2.5-flash"
	Temperature float32 // 0..2
	Timeout     time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
