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

package extraction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/retry"
	"github.com/FatihSuicmez/TUIK-MCP/table"
)

const (
	// DefaultMaxAttempts is the number of oracle calls made per file.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is slept after the first failed call; it doubles
	// after each further failure.
	DefaultBaseDelay = 2 * time.Second
)

// Extractor turns one spreadsheet into fragments using an ai.FragmentExtractor.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	oracle      ai.FragmentExtractor
	maxAttempts int
	baseDelay   time.Duration
	maxLines    int
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxAttempts sets the number of oracle calls per file.
func WithMaxAttempts(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the backoff base delay.
func WithBaseDelay(d time.Duration) Option {
	return func(e *Extractor) {
		if d >= 0 {
			e.baseDelay = d
		}
	}
}

// WithMaxLines bounds the table text sent to the oracle.
func WithMaxLines(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxLines = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an Extractor calling oracle.
func NewExtractor(oracle ai.FragmentExtractor, opts ...Option) (*Extractor, error) {
	if oracle == nil {
		return nil, ErrOracleRequired
	}

	e := &Extractor{
		oracle:      oracle,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		maxLines:    table.DefaultMaxLines,
		logger:      slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract loads the table behind desc and asks the oracle for fragments.
// Oracle failures of any kind are retried with backoff; table loading
// failures are not. Every failure is an *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, desc core.InputDescriptor) ([]core.Fragment, error) {
	basename := desc.Basename()

	text, err := table.Text(desc.AbsolutePath, e.maxLines)
	if err != nil {
		return nil, &ExtractionError{Basename: basename, Err: err}
	}

	var texts []string
	attempts := 0
	err = retry.WithBackoff(ctx, func(attempt int) error {
		attempts = attempt
		var err error
		texts, err = e.oracle.ExtractFragments(ctx, text, basename)
		if err != nil {
			e.logger.Warn("fragment extraction attempt failed",
				"file", basename, "attempt", attempt, "maxAttempts", e.maxAttempts, "err", err)
		}
		return err
	}, e.maxAttempts, e.baseDelay)
	if err != nil {
		return nil, &ExtractionError{Basename: basename, Attempts: attempts, Err: err}
	}

	// blank sentences would fail fragment validation at commit time
	fragments := make([]core.Fragment, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t == "" {
			continue
		}
		fragments = append(fragments, core.NewFragment(t, basename))
	}
	e.logger.Debug("extracted fragments", "file", basename, "fragments", len(fragments), "attempts", attempts)
	return fragments, nil
}
