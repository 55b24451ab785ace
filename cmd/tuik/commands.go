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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	tuik "github.com/FatihSuicmez/TUIK-MCP"
	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/FatihSuicmez/TUIK-MCP/ai/gemini"
	"github.com/FatihSuicmez/TUIK-MCP/ai/openai"
	"github.com/FatihSuicmez/TUIK-MCP/config"
	"github.com/FatihSuicmez/TUIK-MCP/ingestion"
	"github.com/FatihSuicmez/TUIK-MCP/manifest"
	"github.com/FatihSuicmez/TUIK-MCP/mcp"
)

const (
	configKey    = "config"
	logCloserKey = "log-closer"
)

// setup loads the configuration, applies global flag overrides and
// installs the default logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-dir") {
		cfg.LogDir = c.String("log-dir")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("manifest") {
		cfg.ManifestPath = c.String("manifest")
	}

	logger, closer, err := newLogger(cfg.LogLevel, cfg.LogDir, c.App.ErrWriter, time.Now())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	if closer != nil {
		c.App.Metadata[logCloserKey] = closer
	}
	return nil
}

func teardown(c *cli.Context) error {
	if closer, ok := c.App.Metadata[logCloserKey].(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func appConfig(c *cli.Context) *config.Config {
	return c.App.Metadata[configKey].(*config.Config)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

// newProvider creates the AI services. Commands that only embed build an
// OpenAI-compatible provider so that no extraction key is needed.
func newProvider(ctx context.Context, cfg *config.Config, extract bool) (ai.AIProvider, error) {
	aiConfig := cfg.AIConfig()
	if !extract {
		aiConfig.ExtractorBackend = ai.BackendOpenAI
		if err := aiConfig.ValidateEmbedding(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
	}

	var (
		provider ai.AIProvider
		err      error
	)
	switch aiConfig.ExtractorBackend {
	case ai.BackendGemini:
		provider, err = gemini.NewProvider(ctx, aiConfig)
	default:
		provider, err = openai.NewProvider(aiConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return provider, nil
}

func openWorkspace(ctx context.Context, c *cli.Context, extract bool) (*tuik.Workspace, error) {
	cfg := appConfig(c)
	provider, err := newProvider(ctx, cfg, extract)
	if err != nil {
		return nil, err
	}
	ws, err := tuik.OpenWorkspace(cfg, tuik.WithProvider(provider), tuik.WithProgress(c.App.ErrWriter))
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return ws, nil
}

func scanCommand(c *cli.Context) error {
	cfg := appConfig(c)

	m, err := manifest.Scan(cfg.DataDir, manifest.DefaultCategories)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", cfg.DataDir, err)
	}
	if err := m.Save(cfg.ManifestPath); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "%d categories, %d files written to %s\n",
		len(m.Categories), m.FileCount(), cfg.ManifestPath)
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx, cancel := signalContext(c)
	defer cancel()

	ws, err := openWorkspace(ctx, c, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	opts := tuik.IngestOptions{
		Mode:      ingestion.ModeNormal,
		Workers:   c.Int("workers"),
		SkipIndex: c.Bool("skip-index"),
	}
	if c.Bool("reprocess-failed") {
		opts.Mode = ingestion.ModeReprocessFailed
	}
	if opts.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	report, err := ws.Ingest(ctx, opts)
	if report != nil {
		printReport(c.App.Writer, report)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

func printReport(w io.Writer, report *tuik.IngestReport) {
	s := report.Summary
	fmt.Fprintf(w, "Mode: %s\n", report.Plan.Mode)
	fmt.Fprintf(w, "Pending: %d, already done: %d\n", len(report.Plan.Pending), report.Plan.Skipped)
	fmt.Fprintf(w, "Succeeded: %d, failed: %d, canceled: %d\n", s.Succeeded, s.Failed, s.Canceled)
	fmt.Fprintf(w, "Fragments produced: %d\n", s.Fragments)
	for _, f := range s.Failures {
		fmt.Fprintf(w, "  failed %s (%s): %s\n", f.Filename, f.Category, f.Reason)
	}
	if report.Index != nil {
		fmt.Fprintf(w, "Index built: %d vectors, dimension %d, build %s\n",
			report.Index.Count, report.Index.Dimension, report.Index.BuildID)
	} else if report.IndexSkipped != "" {
		fmt.Fprintf(w, "Embedding and indexing skipped: %s\n", report.IndexSkipped)
	}
}

func buildIndexCommand(c *cli.Context) error {
	ctx, cancel := signalContext(c)
	defer cancel()

	ws, err := openWorkspace(ctx, c, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	info, err := ws.BuildIndex(ctx)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Index built: %d vectors, dimension %d, model %s, build %s\n",
		info.Count, info.Dimension, info.Model, info.BuildID)
	return nil
}

func statusCommand(c *cli.Context) error {
	ws, err := tuik.OpenWorkspace(appConfig(c))
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	defer ws.Close()

	status, err := ws.IngestStatus(c.Context)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Fprintf(w, "Manifest files: %d\n", status.ManifestFiles)
	fmt.Fprintf(w, "Completed: %d\n", status.Completed)
	fmt.Fprintf(w, "Failed: %d\n", status.Failed)
	fmt.Fprintf(w, "Pending: %d\n", status.Pending)
	fmt.Fprintf(w, "Checkpoint: %d batches, %d fragments\n", status.CheckpointBatches, status.CheckpointFragments)
	for _, f := range status.Failures {
		fmt.Fprintf(w, "  failed %s (%s): %s\n", f.Filename, f.Category, f.Reason)
	}
	if status.Index.Available {
		info := status.Index.Info
		fmt.Fprintf(w, "Index: %d vectors, dimension %d, model %s, built %s\n",
			info.Count, info.Dimension, info.Model, info.BuiltAt.Format(time.RFC3339))
	} else {
		fmt.Fprintf(w, "Index: unavailable (%s)\n", status.Index.Reason)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a question is required")
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	ws, err := openWorkspace(ctx, c, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	service := ws.LoadRetrieval(ctx)
	monitor := newTimingMonitor(slog.Default().With("component", "query"))
	result, err := service.AnswerWithMonitor(ctx, query, c.Int("top-k"), monitor)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if c.Bool("prompt") {
		fmt.Fprintln(w, result.Prompt)
		return nil
	}
	fmt.Fprintf(w, "Found %d hits\n", len(result.Hits))
	for i, hit := range result.Hits {
		fmt.Fprintf(w, "%d: '%s' (%s)[%0.3f]\n", i, hit.Fragment.Text, hit.Fragment.Metadata.SourceFilename, hit.Distance)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg := appConfig(c)
	if c.IsSet("transport") {
		cfg.Server.Transport = c.String("transport")
	}
	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	ws, err := openWorkspace(ctx, c, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	// A missing index leaves retrieval unavailable; status still works.
	service := ws.LoadRetrieval(ctx)
	if err := service.Available(); err != nil {
		slog.Warn("serving without retrieval", "err", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Status:    ws,
		Retrieval: service,
		Catalog:   ws,
	})
	if err != nil {
		return err
	}

	var runErr error
	switch cfg.Server.Transport {
	case config.TransportHTTP:
		runErr = server.RunHTTP(ctx, cfg.Addr())
	default:
		runErr = server.Run(ctx)
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
