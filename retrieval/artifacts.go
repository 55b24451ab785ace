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
	"bytes"
	"context"
	"fmt"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/index"
	"github.com/FatihSuicmez/TUIK-MCP/storage"
)

// Artifacts is an index and the corpus it was built from, loaded together.
// Fragment i is the text behind index id i.
type Artifacts struct {
	Index     *index.Flat
	Fragments []core.Fragment
	Info      core.ArtifactInfo
}

// NewArtifacts pairs an in-memory index and corpus after checking them
// against info.
func NewArtifacts(idx *index.Flat, fragments []core.Fragment, info core.ArtifactInfo) (*Artifacts, error) {
	a := &Artifacts{Index: idx, Fragments: fragments, Info: info}
	if err := a.check(&info); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadArtifacts reads the index file and the committed corpus and verifies
// that both halves carry the same build id, model and corpus digest.
func LoadArtifacts(ctx context.Context, indexPath string, corpus storage.CorpusRepository) (*Artifacts, error) {
	idx, indexInfo, err := index.Load(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load index %s: %w", indexPath, err)
	}
	corpusInfo, fragments, err := corpus.LoadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	switch {
	case indexInfo.BuildID != corpusInfo.BuildID:
		return nil, fmt.Errorf("%w: index build %s, corpus build %s", ErrArtifactMismatch, indexInfo.BuildID, corpusInfo.BuildID)
	case indexInfo.Model != corpusInfo.Model:
		return nil, fmt.Errorf("%w: index model %s, corpus model %s", ErrArtifactMismatch, indexInfo.Model, corpusInfo.Model)
	case !bytes.Equal(indexInfo.Digest, corpusInfo.Digest):
		return nil, fmt.Errorf("%w: digests differ", ErrArtifactMismatch)
	}

	a := &Artifacts{Index: idx, Fragments: fragments, Info: *indexInfo}
	if err := a.check(indexInfo); err != nil {
		return nil, err
	}
	return a, nil
}

// check verifies sizes and recomputes the corpus digest.
func (a *Artifacts) check(info *core.ArtifactInfo) error {
	if a.Index == nil {
		return fmt.Errorf("%w: no index", ErrArtifactMismatch)
	}
	if a.Index.Len() != len(a.Fragments) || info.Count != len(a.Fragments) {
		return fmt.Errorf("%w: index has %d vectors, corpus has %d fragments", ErrArtifactMismatch, a.Index.Len(), len(a.Fragments))
	}
	if a.Index.Dimension() != info.Dimension {
		return fmt.Errorf("%w: index dimension %d, descriptor says %d", ErrArtifactMismatch, a.Index.Dimension(), info.Dimension)
	}
	if !bytes.Equal(core.CorpusDigest(a.Fragments), info.Digest) {
		return fmt.Errorf("%w: corpus digest does not match its contents", ErrArtifactMismatch)
	}
	return nil
}
