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

package tuik

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/FatihSuicmez/TUIK-MCP/checkpoint"
	"github.com/FatihSuicmez/TUIK-MCP/config"
	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/embedding"
	"github.com/FatihSuicmez/TUIK-MCP/extraction"
	"github.com/FatihSuicmez/TUIK-MCP/index"
	"github.com/FatihSuicmez/TUIK-MCP/ingestion"
	"github.com/FatihSuicmez/TUIK-MCP/manifest"
	"github.com/FatihSuicmez/TUIK-MCP/retrieval"
	"github.com/FatihSuicmez/TUIK-MCP/storage"
	"github.com/FatihSuicmez/TUIK-MCP/storage/badger"
)

var (
	// ErrProviderRequired is returned by operations that call the AI services
	// when the workspace was opened without a provider.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrNoFragments is returned by BuildIndex when the checkpoint is empty.
	ErrNoFragments = errors.New("no fragments to index")
)

// Workspace ties together the ingestion ledger, the committed corpus and the
// index file described by one configuration.
type Workspace struct {
	config   *config.Config
	store    *checkpoint.Store
	backend  *badger.Backend
	corpus   storage.CorpusRepository
	provider ai.AIProvider
	progress io.Writer
	logger   *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	provider ai.AIProvider
	progress io.Writer
}

// WithProvider supplies the extraction and embedding services. The workspace
// takes ownership and closes the provider on Close.
func WithProvider(provider ai.AIProvider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithProgress sets where per-file and embedding progress is written.
// Default discards it.
func WithProgress(w io.Writer) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.progress = w
	}
}

// OpenWorkspace opens the checkpoint store in cfg.WorkDir and the corpus
// store in cfg.CorpusDir.
func OpenWorkspace(cfg *config.Config, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{progress: io.Discard}
	for _, opt := range opts {
		opt(options)
	}
	if options.progress == nil {
		options.progress = io.Discard
	}

	store, err := checkpoint.Open(cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(cfg.CorpusDir, false)
	if err != nil {
		store.Close()
		return nil, err
	}

	corpus, err := badger.NewCorpusRepository(backend)
	if err != nil {
		backend.Close()
		store.Close()
		return nil, err
	}

	return &Workspace{
		config:   cfg,
		store:    store,
		backend:  backend,
		corpus:   corpus,
		provider: options.provider,
		progress: options.progress,
		logger:   slog.Default().With("component", "workspace"),
	}, nil
}

// Close releases the provider and both stores.
func (w *Workspace) Close() error {
	if w.provider != nil {
		if err := w.provider.Close(); err != nil {
			w.logger.Error("error closing AI provider", "err", err)
		}
	}

	var errs []error
	if err := w.corpus.Close(); err != nil {
		w.logger.Error("error closing corpus repository", "err", err)
		errs = append(errs, err)
	}
	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	if err := w.store.Close(); err != nil {
		w.logger.Error("error closing checkpoint store", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Store returns the checkpoint store.
func (w *Workspace) Store() *checkpoint.Store {
	return w.store
}

// CorpusRepository returns the committed corpus store.
func (w *Workspace) CorpusRepository() storage.CorpusRepository {
	return w.corpus
}

// DataDir returns the root of the category folders.
func (w *Workspace) DataDir() string {
	return w.config.DataDir
}

// Manifest reads the manifest file. It is read on every call so that a
// rescan is picked up without a restart.
func (w *Workspace) Manifest(_ context.Context) (*manifest.Manifest, error) {
	return manifest.Load(w.config.ManifestPath)
}

// Plan resolves the manifest against the data directory and partitions it
// against the ledger.
func (w *Workspace) Plan(ctx context.Context, mode ingestion.Mode) (*ingestion.Plan, error) {
	m, err := w.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	files := m.Resolve(w.config.DataDir)
	return ingestion.NewPlan(files, w.store, mode), nil
}

// IngestOptions controls one ingestion pass.
type IngestOptions struct {
	Mode ingestion.Mode

	// Workers overrides the configured pool size when positive.
	Workers int

	// SkipIndex stops after extraction.
	SkipIndex bool
}

// IngestReport describes what one Ingest call did.
type IngestReport struct {
	Plan    *ingestion.Plan
	Summary *ingestion.Summary

	// Index describes the artifacts built in this pass; nil when no build ran.
	Index *core.ArtifactInfo

	// IndexSkipped says why no index was built, if none was.
	IndexSkipped string
}

// Ingest extracts the pending files and then rebuilds the index over the
// whole checkpoint. In reprocess mode the failure log is cleared before
// dispatch; when no file had failed nothing runs.
func (w *Workspace) Ingest(ctx context.Context, opts IngestOptions) (*IngestReport, error) {
	if w.provider == nil {
		return nil, ErrProviderRequired
	}

	plan, err := w.Plan(ctx, opts.Mode)
	if err != nil {
		return nil, err
	}
	report := &IngestReport{Plan: plan, Summary: &ingestion.Summary{Failures: []core.FailureSummary{}}}
	w.logger.Info("ingestion plan", "mode", plan.Mode, "pending", len(plan.Pending), "skipped", plan.Skipped)

	if plan.Mode == ingestion.ModeReprocessFailed {
		if len(plan.Pending) == 0 {
			w.logger.Info("no failed files to reprocess")
			report.IndexSkipped = "no failed files to reprocess"
			return report, nil
		}
		if err := w.store.ResetFailures(); err != nil {
			return nil, err
		}
	}

	if len(plan.Pending) > 0 {
		summary, err := w.extract(ctx, plan.Pending, opts.Workers)
		if summary != nil {
			report.Summary = summary
		}
		if err != nil {
			return report, err
		}
	}

	if opts.SkipIndex {
		report.IndexSkipped = "skipped by request"
		return report, nil
	}

	fragments, err := w.store.LoadCorpus()
	if err != nil {
		return report, err
	}
	if len(fragments) == 0 {
		w.logger.Warn("no fragments produced; embedding and indexing skipped")
		report.IndexSkipped = "no fragments"
		return report, nil
	}
	if w.indexCurrent(ctx, fragments) {
		w.logger.Info("index is up to date", "fragments", len(fragments))
		report.IndexSkipped = "index is up to date"
		return report, nil
	}

	info, err := w.buildIndex(ctx, fragments)
	if err != nil {
		return report, err
	}
	report.Index = info
	return report, nil
}

func (w *Workspace) extract(ctx context.Context, pending []core.InputDescriptor, workers int) (*ingestion.Summary, error) {
	if workers <= 0 {
		workers = w.config.Ingestion.Workers
	}

	extractor, err := extraction.NewExtractor(w.provider.FragmentExtractor(),
		extraction.WithMaxAttempts(w.config.Ingestion.MaxAttempts),
		extraction.WithBaseDelay(w.config.Ingestion.RetryDelay),
		extraction.WithMaxLines(w.config.Ingestion.MaxLines),
	)
	if err != nil {
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(extractor, w.store,
		ingestion.WithPoolSize(workers),
		ingestion.WithProgress(w.progress),
	)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	return pipeline.Run(ctx, pending)
}

// BuildIndex embeds the whole checkpoint corpus and replaces the persisted
// index and corpus with a freshly paired build.
func (w *Workspace) BuildIndex(ctx context.Context) (*core.ArtifactInfo, error) {
	if w.provider == nil {
		return nil, ErrProviderRequired
	}
	fragments, err := w.store.LoadCorpus()
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}
	return w.buildIndex(ctx, fragments)
}

func (w *Workspace) buildIndex(ctx context.Context, fragments []core.Fragment) (*core.ArtifactInfo, error) {
	embedConfig := embedding.DefaultConfig()
	embedConfig.BatchSize = w.config.Ingestion.EmbeddingBatchSize
	encoder, err := embedding.NewEncoder(w.provider.Embedder(), embedConfig, w.progress)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(fragments))
	for i := range fragments {
		texts[i] = fragments[i].Text
	}

	start := time.Now()
	w.logger.Info("embedding corpus", "fragments", len(fragments), "model", encoder.ModelName())
	vectors, err := encoder.EmbedCorpus(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed corpus: %w", err)
	}

	idx, err := index.Build(vectors)
	if err != nil {
		return nil, err
	}

	info := core.ArtifactInfo{
		BuildID:   uuid.NewString(),
		Model:     encoder.ModelName(),
		Dimension: idx.Dimension(),
		Count:     idx.Len(),
		Digest:    core.CorpusDigest(fragments),
		BuiltAt:   time.Now().UTC(),
	}

	// The index file is written last; until it names the new build id the
	// pair fails its load-time check.
	if err := w.corpus.ReplaceCorpus(ctx, info, fragments); err != nil {
		return nil, fmt.Errorf("failed to store corpus: %w", err)
	}
	if err := index.Save(w.config.IndexPath, idx, info); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	w.logger.Info("index built",
		"build_id", info.BuildID, "vectors", info.Count, "dimension", info.Dimension,
		"elapsed", time.Since(start))
	return &info, nil
}

// indexCurrent reports whether the persisted pair was built from fragments
// with the configured embedding model.
func (w *Workspace) indexCurrent(ctx context.Context, fragments []core.Fragment) bool {
	info, err := index.ReadInfo(w.config.IndexPath)
	if err != nil {
		return false
	}
	corpusInfo, err := w.corpus.CorpusInfo(ctx)
	if err != nil || corpusInfo.BuildID != info.BuildID {
		return false
	}
	return info.Model == w.provider.Embedder().ModelName() &&
		bytes.Equal(info.Digest, core.CorpusDigest(fragments))
}

// IngestStatus reports ledger counts against the current manifest and the
// state of the persisted index.
func (w *Workspace) IngestStatus(ctx context.Context) (*core.IngestStatus, error) {
	m, err := w.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	files := m.Resolve(w.config.DataDir)

	failures := w.store.Failures()
	stats := w.store.Stats()
	status := &core.IngestStatus{
		ManifestFiles:       m.FileCount(),
		Completed:           len(w.store.Completed()),
		CheckpointBatches:   stats.Batches,
		CheckpointFragments: stats.Fragments,
		Failures:            []core.FailureSummary{},
	}

	for name, record := range failures {
		if w.store.IsCompleted(name) {
			continue
		}
		status.Failures = append(status.Failures, core.FailureSummary{
			Filename: record.Filename,
			Category: record.Category,
			Reason:   record.ErrorMessage,
		})
	}
	sort.Slice(status.Failures, func(i, j int) bool {
		return status.Failures[i].Filename < status.Failures[j].Filename
	})
	status.Failed = len(status.Failures)

	for _, desc := range files {
		name := desc.Basename()
		if w.store.IsCompleted(name) {
			continue
		}
		if _, failed := failures[name]; failed {
			continue
		}
		status.Pending++
	}

	status.Index = w.indexStatus(ctx)
	return status, nil
}

func (w *Workspace) indexStatus(ctx context.Context) core.IndexStatus {
	info, err := index.ReadInfo(w.config.IndexPath)
	if errors.Is(err, os.ErrNotExist) {
		return core.IndexStatus{Reason: "index not built"}
	}
	if err != nil {
		return core.IndexStatus{Reason: err.Error()}
	}

	corpusInfo, err := w.corpus.CorpusInfo(ctx)
	if err != nil {
		return core.IndexStatus{Reason: fmt.Sprintf("corpus unavailable: %v", err), Info: *info}
	}
	if corpusInfo.BuildID != info.BuildID {
		return core.IndexStatus{Reason: "index and corpus belong to different builds", Info: *info}
	}
	return core.IndexStatus{Available: true, Info: *info}
}

// LoadRetrieval loads the persisted artifacts into a retrieval service.
// A failed load yields a service that reports the cause on every query.
func (w *Workspace) LoadRetrieval(ctx context.Context) *retrieval.Service {
	if w.provider == nil {
		return retrieval.Unavailable(retrieval.ErrEmbedderRequired)
	}

	artifacts, err := retrieval.LoadArtifacts(ctx, w.config.IndexPath, w.corpus)
	if err != nil {
		return retrieval.Unavailable(err)
	}

	encoder, err := embedding.NewEncoder(w.provider.Embedder(), nil, nil)
	if err != nil {
		return retrieval.Unavailable(err)
	}
	return retrieval.NewService(encoder, artifacts)
}
