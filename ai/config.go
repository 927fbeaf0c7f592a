// Copyright 2025 Paperdesk Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the language model services.
type Config struct {
	// Host is the base URL for the OpenAI-compatible chat API.
	// Example: "http://localhost:11434/v1" for a local Ollama server.
	Host string

	// Model is the chat model identifier used for summarization and
	// relevance scoring. Example: "llama3.1:8b", "gpt-4o-mini".
	Model string

	// Token is the API token. Local OpenAI-compatible services that do
	// not authenticate accept any non-empty value.
	Token string

	// Timeout bounds a single model call.
	Timeout time.Duration

	// MaxInputChars caps the paper text sent to the model. Longer texts
	// are reduced section-aware before the call.
	MaxInputChars int

	// SummaryMaxTokens caps the generated summary length.
	SummaryMaxTokens int

	// ScoreMaxTokens caps the relevance assessment length.
	ScoreMaxTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxInputChars sets the input text cap.
func WithMaxInputChars(n int) ConfigOption {
	return func(c *Config) {
		c.MaxInputChars = n
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:             "http://localhost:11434/v1",
		Model:            "llama3.1:8b",
		Token:            "none",
		Timeout:          2 * time.Minute,
		MaxInputChars:    8000,
		SummaryMaxTokens: 1000,
		ScoreMaxTokens:   300,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithModel("qwen2.5:7b"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds the
// /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
}

// Validate checks that the configuration is valid and complete. It
// normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.MaxInputChars < 1000 {
		return errors.New("ai config: MaxInputChars must be at least 1000")
	}
	if c.SummaryMaxTokens < 1 {
		return errors.New("ai config: SummaryMaxTokens must be positive")
	}
	if c.ScoreMaxTokens < 1 {
		return errors.New("ai config: ScoreMaxTokens must be positive")
	}
	return nil
}
