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

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/manifest"
)

// StatusService reports ingestion progress and index state.
type StatusService interface {
	IngestStatus(ctx context.Context) (*core.IngestStatus, error)
}

// Retriever answers retrieval queries.
type Retriever interface {
	Answer(ctx context.Context, query string, topK int) (*core.RetrievalResult, error)
}

// Catalog provides the current manifest and the data root its folders live in.
type Catalog interface {
	Manifest(ctx context.Context) (*manifest.Manifest, error)
	DataDir() string
}

// Ports aggregates the services the MCP server calls.
type Ports struct {
	// Status answers ingest_status.
	Status StatusService

	// Retrieval answers retrieve.
	Retrieval Retriever

	// Catalog backs select_files and preview_files. Optional; the tools
	// are not registered without it.
	Catalog Catalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Status == nil {
		return ErrMissingStatusService
	}
	if p.Retrieval == nil {
		return ErrMissingRetriever
	}
	return nil
}
