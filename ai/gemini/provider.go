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

package gemini

import (
	"context"
	"log/slog"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/FatihSuicmez/TUIK-MCP/ai/openai"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Provider implements ai.AIProvider with Gemini extraction and an
// OpenAI-compatible embedder.
type Provider struct {
	client    *genai.Client
	embedder  ai.Embedder
	extractor *FragmentExtractor
	logger    *slog.Logger
}

// NewProvider creates a Gemini client for extraction and an embedder for
// the configured embedding host. The config must carry an API key.
//
// Returns ai.AIProvider interface to enforce abstraction.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(config.ExtractorModel)
	configureModel(model)

	return &Provider{
		client:    client,
		embedder:  embedder,
		extractor: newFragmentExtractor(model),
		logger:    slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// FragmentExtractor returns the Gemini extraction service.
func (p *Provider) FragmentExtractor() ai.FragmentExtractor {
	return p.extractor
}

// Close releases the Gemini client.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return p.client.Close()
}
