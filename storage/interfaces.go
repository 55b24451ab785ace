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

package storage

import (
	"context"

	"github.com/FatihSuicmez/TUIK-MCP/core"
)

// CorpusRepository persists the fragment corpus that a vector index was built from.
// Fragments are addressed by their position, which is the id the index returns.
// Implementations must be thread-safe and support concurrent access.
type CorpusRepository interface {
	// ReplaceCorpus atomically swaps the stored corpus for fragments.
	// info.Count must equal len(fragments). Readers observe either the old
	// corpus or the new one, never a mix.
	ReplaceCorpus(ctx context.Context, info core.ArtifactInfo, fragments []core.Fragment) error

	// LoadCorpus returns the committed corpus and its descriptor.
	// Returns ErrNoCorpus if nothing has been committed.
	LoadCorpus(ctx context.Context) (*core.ArtifactInfo, []core.Fragment, error)

	// CorpusInfo returns only the descriptor of the committed corpus.
	// Returns ErrNoCorpus if nothing has been committed.
	CorpusInfo(ctx context.Context) (*core.ArtifactInfo, error)

	// GetFragment returns the fragment stored at position.
	// Returns ErrNotFound if the position is out of range.
	GetFragment(ctx context.Context, position int) (*core.Fragment, error)

	// Close closes the repository and releases resources.
	Close() error
}
