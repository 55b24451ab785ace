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

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FatihSuicmez/TUIK-MCP/core"
)

// DefaultTopK is the number of fragments returned when topK is not positive.
const DefaultTopK = 5

// QueryEmbedder embeds query text in the space the index was built in.
// embedding.Encoder implements it.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// Service answers retrieval queries over loaded artifacts.
// Artifacts are read-only after construction; concurrent queries are safe.
type Service struct {
	embedder  QueryEmbedder
	artifacts *Artifacts
	cause     error
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service over artifacts. Missing collaborators or an
// embedder for another model leave the service unavailable rather than
// failing construction; Available reports why.
func NewService(embedder QueryEmbedder, artifacts *Artifacts, opts ...Option) *Service {
	s := &Service{
		embedder:  embedder,
		artifacts: artifacts,
		logger:    slog.Default().With("component", "retrieval"),
	}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case embedder == nil:
		s.cause = ErrEmbedderRequired
	case artifacts == nil:
		s.cause = ErrNoArtifacts
	case embedder.ModelName() != artifacts.Info.Model:
		s.cause = fmt.Errorf("%w: index built with %s, query embedder is %s",
			ErrModelMismatch, artifacts.Info.Model, embedder.ModelName())
	}
	if s.cause != nil {
		s.logger.Warn("retrieval unavailable", "err", s.cause)
		s.artifacts = nil
	}
	return s
}

// Unavailable returns a service whose every query fails with cause.
func Unavailable(cause error, opts ...Option) *Service {
	if cause == nil {
		cause = ErrNoArtifacts
	}
	s := &Service{cause: cause, logger: slog.Default().With("component", "retrieval")}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Warn("retrieval unavailable", "err", cause)
	return s
}

// Available returns nil when queries can be served, otherwise an error
// wrapping ErrServiceUnavailable and the load cause.
func (s *Service) Available() error {
	if s.cause != nil {
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, s.cause)
	}
	return nil
}

// Info returns the descriptor of the loaded artifacts.
func (s *Service) Info() (core.ArtifactInfo, bool) {
	if s.artifacts == nil {
		return core.ArtifactInfo{}, false
	}
	return s.artifacts.Info, true
}

// Answer retrieves the topK fragments nearest to query and assembles the
// context, source list and prompt for a downstream generation step.
func (s *Service) Answer(ctx context.Context, query string, topK int) (*core.RetrievalResult, error) {
	return s.AnswerWithMonitor(ctx, query, topK, nil)
}

// AnswerWithMonitor is Answer with callbacks at each stage.
func (s *Service) AnswerWithMonitor(ctx context.Context, query string, topK int, monitor Monitor) (*core.RetrievalResult, error) {
	if err := s.Available(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(vector)

	distances, ids, err := s.artifacts.Index.Search(vector, topK)
	if err != nil {
		s.logger.Error("error searching index", "err", err)
		return nil, err
	}
	monitor.AfterSearch(ids, distances)

	result := assemble(query, ids, distances, s.artifacts.Fragments)
	if result == nil {
		return nil, errors.New("index returned ids outside the corpus")
	}
	monitor.Finish(result)

	s.logger.Debug("answered query", "query", query, "hits", len(result.Hits), "sources", len(result.Sources))
	return result, nil
}

// assemble builds the result for ranked ids. Returns nil if an id is out of range.
func assemble(query string, ids []int, distances []float32, fragments []core.Fragment) *core.RetrievalResult {
	result := &core.RetrievalResult{
		Query:   query,
		Sources: []string{},
		Hits:    make([]core.RetrievalHit, 0, len(ids)),
	}

	texts := make([]string, 0, len(ids))
	seen := make(map[string]bool)
	for i, id := range ids {
		if id < 0 || id >= len(fragments) {
			return nil
		}
		fragment := fragments[id]
		texts = append(texts, fragment.Text)
		result.Hits = append(result.Hits, core.RetrievalHit{
			Position: id,
			Distance: distances[i],
			Fragment: fragment,
		})

		source := fragment.Metadata.SourceFilename
		if source != "" && !seen[source] {
			seen[source] = true
			result.Sources = append(result.Sources, source)
		}
	}

	result.Context = strings.Join(texts, ContextSeparator)
	result.Prompt = BuildPrompt(result.Context, result.Sources, query)
	return result
}
