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

package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName identifies the embedding space. Vectors from different
	// models must never be compared.
	ModelName() string
}

// FragmentExtractor turns one table into self-contained sentences.
// Implementations must be thread-safe for concurrent use.
type FragmentExtractor interface {
	// ExtractFragments sends the CSV text of a table and its file name to
	// the model and returns one sentence per data point, in model order.
	// Failures are classified with ErrBlocked, ErrEmptyResponse and
	// ErrMalformedOutput where they apply. A single call makes one model
	// request; retrying is the caller's concern.
	ExtractFragments(ctx context.Context, tableText, filename string) ([]string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// FragmentExtractor returns the table extraction service.
	FragmentExtractor() FragmentExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
