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

package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// stopContentFilter is the finish reason OpenAI-compatible servers report
// when output was withheld.
const stopContentFilter = "content_filter"

// FragmentExtractor implements ai.FragmentExtractor using OpenAI-compatible chat APIs.
type FragmentExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newFragmentExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newFragmentExtractor(config *ai.Config) (*FragmentExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local OpenAI-compatible services accept any token
	token := config.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken(token),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return newFragmentExtractorWithModel(client), nil
}

func newFragmentExtractorWithModel(client llms.Model) *FragmentExtractor {
	return &FragmentExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}
}

// NewFragmentExtractor creates a new fragment extractor using the provided configuration.
//
// Returns ai.FragmentExtractor interface to enforce abstraction.
func NewFragmentExtractor(config *ai.Config) (ai.FragmentExtractor, error) {
	return newFragmentExtractor(config)
}

// ExtractFragments makes one chat request and validates the reply.
func (e *FragmentExtractor) ExtractFragments(ctx context.Context, tableText, filename string) ([]string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(ai.FragmentSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(ai.FragmentUserPrompt(filename, tableText))},
		},
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		e.logger.Debug("failed to generate content", "file", filename, "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		return nil, ai.ErrEmptyResponse
	}
	choice := response.Choices[0]
	if choice.Content == "" {
		if choice.StopReason == stopContentFilter {
			return nil, &ai.BlockedError{Reason: choice.StopReason}
		}
		return nil, ai.ErrEmptyResponse
	}

	fragments, err := ai.ParseFragmentList(choice.Content)
	if err != nil {
		e.logger.Debug("error parsing extractor response",
			"file", filename,
			"response", choice.Content,
			"err", err)
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	e.logger.Debug("extracted fragments", "file", filename, "count", len(fragments))
	return fragments, nil
}
