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

package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FatihSuicmez/TUIK-MCP/manifest"
	"github.com/FatihSuicmez/TUIK-MCP/table"
)

// defaultTopK mirrors the retrieval default.
const defaultTopK = 5

// StatusInput is the input schema for the ingest_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the ingest_status tool.
type StatusOutput struct {
	ManifestFiles       int             `json:"manifest_files"`
	Completed           int             `json:"completed"`
	Failed              int             `json:"failed"`
	Pending             int             `json:"pending"`
	CheckpointBatches   int             `json:"checkpoint_batches"`
	CheckpointFragments int             `json:"checkpoint_fragments"`
	Failures            []FailureOutput `json:"failures"`
	Index               IndexOutput     `json:"index"`
}

// FailureOutput is one failed file.
type FailureOutput struct {
	Filename string `json:"filename"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// IndexOutput describes the persisted retrieval artifacts.
type IndexOutput struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	BuildID   string `json:"build_id,omitempty"`
	Model     string `json:"model,omitempty"`
	Dimension int    `json:"dimension,omitempty"`
	Fragments int    `json:"fragments,omitempty"`
	BuiltAt   string `json:"built_at,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the question to find statistics for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of fragments to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Context string      `json:"context"`
	Sources []string    `json:"sources"`
	Prompt  string      `json:"prompt"`
	Hits    []HitOutput `json:"hits"`
}

// HitOutput is one ranked fragment.
type HitOutput struct {
	Text     string  `json:"text"`
	Source   string  `json:"source"`
	Distance float32 `json:"distance"`
}

// SelectInput is the input schema for the select_files tool.
type SelectInput struct {
	Question string `json:"question" jsonschema:"the user's question in Turkish"`
}

// SelectOutput is the output schema for the select_files tool.
type SelectOutput struct {
	Groups []manifest.Selection `json:"groups"`
}

// PreviewInput is the input schema for the preview_files tool.
type PreviewInput struct {
	Groups []manifest.Selection `json:"groups" jsonschema:"file groups as returned by select_files"`
}

// PreviewOutput is the output schema for the preview_files tool.
type PreviewOutput struct {
	Files []FilePreview `json:"files"`
}

// FilePreview holds the first rows of one file, or why it could not be read.
type FilePreview struct {
	Filename string           `json:"filename"`
	Columns  []string         `json:"columns,omitempty"`
	Records  []map[string]any `json:"records,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_status",
		Description: "Report how many statistics tables are ingested, failed or pending, and whether the search index is ready",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the statistical sentences closest to a question and return them with their source files and a ready-made prompt",
	}, s.handleRetrieve)

	if s.ports.Catalog == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_files",
		Description: "Pick TÜİK data files whose category or file name matches words of the question",
	}, s.handleSelect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_files",
		Description: "Read the first rows of the selected TÜİK data files",
	}, s.handlePreview)
}

// handleStatus handles the ingest_status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.ports.Status.IngestStatus(ctx)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	output := StatusOutput{
		ManifestFiles:       status.ManifestFiles,
		Completed:           status.Completed,
		Failed:              status.Failed,
		Pending:             status.Pending,
		CheckpointBatches:   status.CheckpointBatches,
		CheckpointFragments: status.CheckpointFragments,
		Failures:            make([]FailureOutput, len(status.Failures)),
		Index: IndexOutput{
			Available: status.Index.Available,
			Reason:    status.Index.Reason,
		},
	}
	for i, f := range status.Failures {
		output.Failures[i] = FailureOutput{Filename: f.Filename, Category: f.Category, Reason: f.Reason}
	}
	if status.Index.Available {
		info := status.Index.Info
		output.Index.BuildID = info.BuildID
		output.Index.Model = info.Model
		output.Index.Dimension = info.Dimension
		output.Index.Fragments = info.Count
		output.Index.BuiltAt = info.BuiltAt.Format(time.RFC3339)
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	result, err := s.ports.Retrieval.Answer(ctx, input.Query, topK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Context: result.Context,
		Sources: result.Sources,
		Prompt:  result.Prompt,
		Hits:    make([]HitOutput, len(result.Hits)),
	}
	for i, hit := range result.Hits {
		output.Hits[i] = HitOutput{
			Text:     hit.Fragment.Text,
			Source:   hit.Fragment.Metadata.SourceFilename,
			Distance: hit.Distance,
		}
	}

	return nil, output, nil
}

// handleSelect handles the select_files tool invocation.
func (s *Server) handleSelect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SelectInput,
) (*mcp.CallToolResult, SelectOutput, error) {
	m, err := s.ports.Catalog.Manifest(ctx)
	if err != nil {
		return nil, SelectOutput{}, err
	}

	groups := m.SelectFiles(input.Question)
	if len(groups) == 0 {
		return nil, SelectOutput{}, ErrNoMatchingFiles
	}
	s.logger.Info("selected files", "question", input.Question, "groups", len(groups))
	return nil, SelectOutput{Groups: groups}, nil
}

// handlePreview handles the preview_files tool invocation.
// A file that cannot be read gets an error entry; the others are still returned.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	dataDir := s.ports.Catalog.DataDir()
	output := PreviewOutput{Files: []FilePreview{}}

	for _, group := range input.Groups {
		for _, name := range group.Files {
			if err := ctx.Err(); err != nil {
				return nil, PreviewOutput{}, err
			}
			output.Files = append(output.Files, s.previewFile(dataDir, group.CategoryPath, name))
		}
	}
	return nil, output, nil
}

func (s *Server) previewFile(dataDir, folder, name string) FilePreview {
	preview := FilePreview{Filename: name}
	if !safeName(folder) || !safeName(name) {
		preview.Error = ErrInvalidPath.Error()
		return preview
	}

	path := filepath.Join(dataDir, folder, name)
	data, err := table.Preview(path, table.DefaultPreviewRows)
	if err != nil {
		s.logger.Error("failed to preview file", "file", path, "err", err)
		preview.Error = fmt.Sprintf("failed to read file: %v", err)
		return preview
	}

	preview.Columns = data.Columns
	preview.Records = make([]map[string]any, len(data.Rows))
	for i, row := range data.Rows {
		record := make(map[string]any, len(data.Columns))
		for j, column := range data.Columns {
			var v any
			if j < len(row) {
				v = row[j]
			}
			record[column] = v
		}
		preview.Records[i] = record
	}
	return preview
}

// safeName accepts a single path element.
func safeName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
