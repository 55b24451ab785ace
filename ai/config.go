// Copyright 2025 Poiesic Systems
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
	"fmt"
	"strings"
)

// Extractor backends.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Config holds configuration for AI service providers.
type Config struct {
	// ExtractorBackend selects the fragment extraction service:
	// BackendGemini (Google Generative AI) or BackendOpenAI (any
	// OpenAI-compatible chat API).
	ExtractorBackend string

	// APIKey authenticates against the extraction service.
	// Required for BackendGemini; optional for local OpenAI-compatible servers.
	APIKey string

	// ExtractorHost is the base URL of the OpenAI-compatible chat API.
	// Ignored by the Gemini backend.
	ExtractorHost string

	// ExtractorModel is the model used to turn tables into fragments.
	// Example: "gemini-2.5-pro", "qwen2.5:7b"
	ExtractorModel string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// The identifier is pinned in every index artifact.
	EmbeddingModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithExtractorBackend selects the extraction backend.
func WithExtractorBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.ExtractorBackend = backend
	}
}

// WithAPIKey sets the extraction service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithExtractorHost sets the OpenAI-compatible extraction host URL.
func WithExtractorHost(host string) ConfigOption {
	return func(c *Config) {
		c.ExtractorHost = host
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithHost sets both embedding and extraction hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ExtractorHost = host
	}
}

// WithExtractorModel sets the extraction model identifier.
func WithExtractorModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExtractorModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// DefaultConfig returns a Config that extracts with Gemini and embeds through
// a local OpenAI-compatible server hosting the multilingual MPNet model.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		ExtractorBackend: BackendGemini,
		ExtractorHost:    defaultHost,
		ExtractorModel:   "gemini-2.5-pro",
		EmbeddingHost:    defaultHost,
		EmbeddingModel:   "paraphrase-multilingual-mpnet-base-v2",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	    WithEmbeddingHost("http://localhost:8080"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.ExtractorHost = normalizeHost(c.ExtractorHost)
	c.ExtractorBackend = strings.ToLower(strings.TrimSpace(c.ExtractorBackend))
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// ValidateEmbedding checks the settings needed to embed text.
// It normalizes the configuration first.
func (c *Config) ValidateEmbedding() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}

// Validate checks that the configuration is valid and complete for both
// extraction and embedding. It normalizes the configuration first.
func (c *Config) Validate() error {
	if err := c.ValidateEmbedding(); err != nil {
		return err
	}

	if c.ExtractorModel == "" {
		return errors.New("ai config: ExtractorModel is required")
	}
	switch c.ExtractorBackend {
	case BackendGemini:
		if c.APIKey == "" {
			return fmt.Errorf("ai config: %w", ErrMissingAPIKey)
		}
	case BackendOpenAI:
		if c.ExtractorHost == "" {
			return errors.New("ai config: ExtractorHost is required")
		}
	default:
		return fmt.Errorf("ai config: unknown ExtractorBackend %q", c.ExtractorBackend)
	}
	return nil
}
