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

// Package storage provides the storage abstraction for the fragment corpus
// that backs a persisted vector index.
//
// The corpus is written once per index build and read many times by the
// retrieval service. It is addressed by position: the i-th stored fragment is
// the one the index returns as id i. Each committed corpus carries a
// core.ArtifactInfo (build id, embedding model, dimension, count, digest)
// which must match the header of the index file it was built with.
//
// # Encoding
//
// Records are encoded with the mus format (see core.FragmentMUS and friends).
// The same batch encoding is used by the checkpoint package for its framed
// append-only fragment log.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/corpus", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo := badger.NewCorpusRepository(backend)
//	defer repo.Close()
//
//	info, fragments, err := repo.LoadCorpus(ctx)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryCorpusRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
