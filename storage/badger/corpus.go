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

package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/storage"
	"github.com/dgraph-io/badger/v4"
)

// CorpusRepository implements storage.CorpusRepository using BadgerDB.
//
// Each ReplaceCorpus call writes its fragments under a fresh generation and
// then flips the active generation pointer together with the descriptor in
// a single transaction. Readers resolve the pointer first, so they observe
// a complete corpus or none.
type CorpusRepository struct {
	backend *Backend
	mu      sync.Mutex // serializes writers
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository creates a new CorpusRepository.
func NewCorpusRepository(backend *Backend) (*CorpusRepository, error) {
	return &CorpusRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CorpusRepository has no resources to release.
func (r *CorpusRepository) Close() error {
	return nil
}

// ReplaceCorpus stores fragments as the new committed corpus.
func (r *CorpusRepository) ReplaceCorpus(ctx context.Context, info core.ArtifactInfo, fragments []core.Fragment) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := core.ValidateArtifactInfo(&info); err != nil {
		return err
	}
	if info.Count != len(fragments) {
		return fmt.Errorf("%w: count %d does not match %d fragments", core.ErrInvalidArtifactInfo, info.Count, len(fragments))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	oldGen, hasOld, err := r.activeGeneration()
	if err != nil {
		return err
	}
	newGen := oldGen + 1

	// Leftovers from an interrupted replace would inflate the count.
	if err := r.backend.DropPrefix(makeFragmentPrefix(newGen)); err != nil {
		return fmt.Errorf("failed to clear corpus generation %d: %w", newGen, err)
	}

	err = r.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for i := range fragments {
			if i%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := wb.Set(makeFragmentKey(newGen, i), storage.MarshalFragment(&fragments[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Partial generation is unreachable; reclaim it.
		_ = r.backend.DropPrefix(makeFragmentPrefix(newGen))
		return fmt.Errorf("failed to write corpus fragments: %w", err)
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(corpusInfoKey), storage.MarshalArtifactInfo(&info)); err != nil {
			return err
		}
		if err := tx.Set([]byte(corpusActiveKey), makeGenerationValue(newGen)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		_ = r.backend.DropPrefix(makeFragmentPrefix(newGen))
		return fmt.Errorf("failed to commit corpus: %w", err)
	}

	if hasOld {
		if err := r.backend.DropPrefix(makeFragmentPrefix(oldGen)); err != nil {
			r.backend.logger.Warn("failed to drop previous corpus generation",
				"generation", oldGen, "error", err)
		}
	}
	return nil
}

// LoadCorpus returns the committed corpus in position order.
func (r *CorpusRepository) LoadCorpus(ctx context.Context) (*core.ArtifactInfo, []core.Fragment, error) {
	if r.backend.IsClosed() {
		return nil, nil, storage.ErrStorageClosed
	}

	var info *core.ArtifactInfo
	var fragments []core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := readGeneration(tx)
		if err != nil {
			return err
		}
		if info, err = readInfo(tx); err != nil {
			return err
		}

		fragments = make([]core.Fragment, 0, info.Count)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = makeFragmentPrefix(gen)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var fragment *core.Fragment
			err := iter.Item().Value(func(val []byte) error {
				var err error
				fragment, err = storage.UnmarshalFragment(val)
				return err
			})
			if err != nil {
				return err
			}
			fragments = append(fragments, *fragment)
		}
		return nil
	}, false)
	if err != nil {
		return nil, nil, err
	}

	if len(fragments) != info.Count {
		return nil, nil, fmt.Errorf("%w: descriptor says %d, found %d", storage.ErrCorpusIncomplete, info.Count, len(fragments))
	}
	return info, fragments, nil
}

// CorpusInfo returns the descriptor of the committed corpus.
func (r *CorpusRepository) CorpusInfo(ctx context.Context) (*core.ArtifactInfo, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var info *core.ArtifactInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readGeneration(tx); err != nil {
			return err
		}
		var err error
		info, err = readInfo(tx)
		return err
	}, false)
	return info, err
}

// GetFragment retrieves a single fragment by position.
func (r *CorpusRepository) GetFragment(ctx context.Context, position int) (*core.Fragment, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if position < 0 {
		return nil, storage.ErrNotFound
	}

	var fragment *core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := readGeneration(tx)
		if err != nil {
			return err
		}
		item, err := tx.Get(makeFragmentKey(gen, position))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			fragment, err = storage.UnmarshalFragment(val)
			return err
		})
	}, false)
	return fragment, err
}

// Helper methods

// activeGeneration returns the committed generation, if any.
func (r *CorpusRepository) activeGeneration() (uint64, bool, error) {
	var gen uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		gen, err = readGeneration(tx)
		return err
	}, false)
	if errors.Is(err, storage.ErrNoCorpus) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return gen, true, nil
}

// readGeneration reads the active generation pointer.
func readGeneration(tx *badger.Txn) (uint64, error) {
	item, err := tx.Get([]byte(corpusActiveKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, storage.ErrNoCorpus
		}
		return 0, err
	}
	var gen uint64
	err = item.Value(func(val []byte) error {
		gen, err = parseGenerationValue(val)
		return err
	})
	return gen, err
}

// readInfo reads the corpus descriptor.
func readInfo(tx *badger.Txn) (*core.ArtifactInfo, error) {
	item, err := tx.Get([]byte(corpusInfoKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNoCorpus
		}
		return nil, err
	}
	var info *core.ArtifactInfo
	err = item.Value(func(val []byte) error {
		info, err = storage.UnmarshalArtifactInfo(val)
		return err
	})
	return info, err
}
