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

package embedding

import "errors"

var (
	// ErrEmbedderRequired is returned when no embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrCountMismatch is returned when the embedder returns a different
	// number of vectors than texts sent.
	ErrCountMismatch = errors.New("embedding count mismatch")

	// ErrDimensionMismatch is returned when vectors differ in length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyVector is returned for zero-length vectors.
	ErrEmptyVector = errors.New("embedding vector is empty")

	// ErrNonFinite is returned for vectors holding NaN or Inf.
	ErrNonFinite = errors.New("embedding vector has non-finite values")
)
