package mcp

import (
	"context"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/manifest"
)

// mockStatusService is a mock implementation of StatusService.
type mockStatusService struct {
	status *core.IngestStatus
	err    error
}

func (m *mockStatusService) IngestStatus(_ context.Context) (*core.IngestStatus, error) {
	return m.status, m.err
}

// mockRetriever is a mock implementation of Retriever.
type mockRetriever struct {
	result    *core.RetrievalResult
	err       error
	lastQuery string
	lastTopK  int
}

func (m *mockRetriever) Answer(_ context.Context, query string, topK int) (*core.RetrievalResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockCatalog is a mock implementation of Catalog.
type mockCatalog struct {
	manifest *manifest.Manifest
	dataDir  string
	err      error
}

func (m *mockCatalog) Manifest(_ context.Context) (*manifest.Manifest, error) {
	return m.manifest, m.err
}

func (m *mockCatalog) DataDir() string {
	return m.dataDir
}
