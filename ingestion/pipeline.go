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

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/panjf2000/ants/v2"
)

// DefaultPoolSize is the number of files extracted concurrently.
const DefaultPoolSize = 8

// Pipeline dispatches files to a fixed-size worker pool and records each
// outcome in the ledger as results arrive.
//
// Workers only call the Processor. A single collector, running in Run's
// goroutine, is the only caller of the Ledger.
type Pipeline struct {
	processor Processor
	ledger    Ledger
	pool      *ants.Pool
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size.
// Default is DefaultPoolSize, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress sets where per-file progress lines are written.
// Default discards them.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progress = w
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(processor Processor, ledger Ledger, opts ...Option) (*Pipeline, error) {
	if processor == nil {
		return nil, ErrProcessorRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		processor: processor,
		ledger:    ledger,
		pool:      pool,
		progress:  io.Discard,
		logger:    slog.Default().With("component", "ingestion"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Workers returns the pool capacity.
func (p *Pipeline) Workers() int {
	return p.pool.Cap()
}

// Summary reports the outcome of one run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	// Canceled counts files dropped by context cancellation; they stay pending.
	Canceled  int
	Fragments int
	Failures  []core.FailureSummary
	Elapsed   time.Duration
}

// Run processes pending and returns once every submitted file has an
// outcome. A failing file never stops the others. When ctx is canceled no
// new files are started and files interrupted by the cancellation are not
// recorded. The returned error reports ledger write failures and
// cancellation; per-file extraction failures are only in the Summary.
func (p *Pipeline) Run(ctx context.Context, pending []core.InputDescriptor) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Total: len(pending), Failures: []core.FailureSummary{}}
	if len(pending) == 0 {
		return summary, nil
	}

	p.logger.Info("starting ingestion", "files", len(pending), "workers", p.Workers())

	// Buffered so workers never wait on the collector.
	results := make(chan result, len(pending))
	var wg sync.WaitGroup
	var submitErr error

	go func() {
		defer func() {
			wg.Wait()
			close(results)
		}()
		for i, desc := range pending {
			if ctx.Err() != nil {
				return
			}
			wg.Add(1)
			err := p.pool.Submit(func() {
				defer wg.Done()
				fmt.Fprintf(p.progress, "[%d/%d | %s] processing %s\n", i+1, len(pending), desc.Category, desc.Basename())
				fragments, err := p.processor.Extract(ctx, desc)
				results <- result{desc: desc, fragments: fragments, err: err}
			})
			if err != nil {
				wg.Done()
				submitErr = fmt.Errorf("failed to submit %s: %w", desc.Basename(), err)
				return
			}
		}
	}()

	var ledgerErrs []error
	for r := range results {
		ledgerErrs = append(ledgerErrs, p.collect(ctx, summary, r))
	}

	summary.Elapsed = time.Since(start)
	p.logger.Info("ingestion finished",
		"succeeded", summary.Succeeded, "failed", summary.Failed, "canceled", summary.Canceled,
		"fragments", summary.Fragments, "elapsed", summary.Elapsed)

	err := errors.Join(append(ledgerErrs, submitErr)...)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return summary, err
}

// collect applies one result to the ledger.
func (p *Pipeline) collect(ctx context.Context, summary *Summary, r result) error {
	basename := r.desc.Basename()

	if r.err != nil {
		if ctx.Err() != nil && (errors.Is(r.err, context.Canceled) || errors.Is(r.err, context.DeadlineExceeded)) {
			p.logger.Debug("file interrupted, left pending", "file", basename)
			summary.Canceled++
			return nil
		}

		p.logger.Error("file failed",
			"timestamp", time.Now().Format(time.DateTime),
			"category", r.desc.Category,
			"file", basename,
			"err", r.err)
		summary.Failed++
		summary.Failures = append(summary.Failures, core.FailureSummary{
			Filename: basename,
			Category: r.desc.Category,
			Reason:   r.err.Error(),
		})
		if err := p.ledger.RecordFailure(r.desc, r.err); err != nil {
			p.logger.Error("failed to record failure", "file", basename, "err", err)
			return err
		}
		return nil
	}

	if err := p.ledger.RecordSuccess(r.desc, r.fragments); err != nil {
		p.logger.Error("failed to record success", "file", basename, "err", err)
		summary.Failed++
		summary.Failures = append(summary.Failures, core.FailureSummary{
			Filename: basename,
			Category: r.desc.Category,
			Reason:   err.Error(),
		})
		return err
	}

	summary.Succeeded++
	summary.Fragments += len(r.fragments)
	fmt.Fprintf(p.progress, "  %s: %d fragments\n", basename, len(r.fragments))
	return nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
