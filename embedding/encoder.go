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

package embedding

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/FatihSuicmez/TUIK-MCP/retry"
)

// Encoder turns fragment texts into vectors of one fixed dimension.
type Encoder struct {
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewEncoder creates a new encoder.
// progress: where to write progress output (typically os.Stderr); nil disables it.
func NewEncoder(embedder ai.Embedder, config *Config, progress io.Writer) (*Encoder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Encoder{
		embedder: embedder,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "encoder"),
	}, nil
}

// ModelName identifies the embedding space of the vectors produced.
func (e *Encoder) ModelName() string {
	return e.embedder.ModelName()
}

// EmbedCorpus embeds all texts in order, batch by batch, retrying each batch
// with backoff. The result has one row per text; all rows share the same
// dimension.
func (e *Encoder) EmbedCorpus(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	progress := newBatchProgress(e.progress, e.ModelName(), len(texts), e.config.BatchSize)

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.config.BatchSize {
		end := min(start+e.config.BatchSize, len(texts))
		batch := texts[start:end]

		var embedded [][]float32
		var attempts int
		err := retry.WithBackoff(ctx, func(attempt int) error {
			var err error
			attempts = attempt
			embedded, err = e.embedder.EmbedTexts(ctx, batch)
			if err != nil {
				e.logger.Warn("embedding batch failed", "start", start, "attempt", attempt, "err", err)
			}
			return err
		}, e.config.MaxRetries, e.config.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to embed texts %d-%d after %d attempts: %w", start, end-1, e.config.MaxRetries, err)
		}
		if len(embedded) != len(batch) {
			return nil, fmt.Errorf("%w: sent %d texts, got %d vectors", ErrCountMismatch, len(batch), len(embedded))
		}

		for _, v := range embedded {
			if e.config.Normalize {
				v = NormalizeVector(v)
			}
			vectors = append(vectors, v)
		}
		progress.batchDone(len(batch), attempts)
	}
	elapsed := progress.finish()

	dim, err := ValidateVectors(vectors, len(texts))
	if err != nil {
		return nil, err
	}
	e.logger.Info("embedded corpus",
		"texts", len(texts), "dimension", dim, "model", e.ModelName(), "elapsed", elapsed)
	return vectors, nil
}

// EmbedQuery embeds a single query text.
func (e *Encoder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v, err := e.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	if _, err := ValidateVectors([][]float32{v}, 1); err != nil {
		return nil, err
	}
	if e.config.Normalize {
		v = NormalizeVector(v)
	}
	return v, nil
}
