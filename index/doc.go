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

// Package index provides an exact nearest-neighbor index over fixed-length
// float32 vectors and its on-disk format.
//
// The file stores the vectors next to the descriptor of the corpus they
// were embedded from (build id, embedding model, corpus digest) so that a
// loader can refuse to pair an index with the wrong corpus.
package index
