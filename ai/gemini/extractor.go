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
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/google/generative-ai-go/genai"
)

// generator is the part of *genai.GenerativeModel the extractor uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// FragmentExtractor implements ai.FragmentExtractor with Google Generative AI.
type FragmentExtractor struct {
	model  generator
	logger *slog.Logger
}

var _ ai.FragmentExtractor = (*FragmentExtractor)(nil)

// configureModel applies the extraction settings to a generative model:
// deterministic sampling, JSON output and the analyst system prompt.
func configureModel(m *genai.GenerativeModel) {
	m.SetTemperature(0)
	m.ResponseMIMEType = "application/json"
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ai.FragmentSystemPrompt)},
	}
}

func newFragmentExtractor(model generator) *FragmentExtractor {
	return &FragmentExtractor{
		model:  model,
		logger: slog.Default().With("component", "gemini-extractor"),
	}
}

// ExtractFragments makes one generate request and validates the reply.
func (e *FragmentExtractor) ExtractFragments(ctx context.Context, tableText, filename string) ([]string, error) {
	resp, err := e.model.GenerateContent(ctx, genai.Text(ai.FragmentUserPrompt(filename, tableText)))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return nil, &ai.BlockedError{Reason: blockReason(blocked)}
		}
		e.logger.Debug("failed to generate content", "file", filename, "err", err)
		return nil, err
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return nil, &ai.BlockedError{Reason: resp.PromptFeedback.BlockReason.String()}
		}
		return nil, ai.ErrEmptyResponse
	}

	fragments, err := ai.ParseFragmentList(text)
	if err != nil {
		e.logger.Debug("error parsing extractor response", "file", filename, "response", text, "err", err)
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	e.logger.Debug("extracted fragments", "file", filename, "count", len(fragments))
	return fragments, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func blockReason(err *genai.BlockedError) string {
	switch {
	case err.PromptFeedback != nil:
		return err.PromptFeedback.BlockReason.String()
	case err.Candidate != nil:
		return err.Candidate.FinishReason.String()
	default:
		return "unknown"
	}
}
