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

package core

import (
	"fmt"
	"strings"
)

// ValidateFragment validates a Fragment according to domain rules.
//
// Validation rules:
//   - Text must not be blank
//   - SourceFilename must not be empty
func ValidateFragment(fragment *Fragment) error {
	if fragment == nil {
		return fmt.Errorf("%w: fragment is nil", ErrInvalidFragment)
	}

	if strings.TrimSpace(fragment.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrEmptyText)
	}

	if fragment.Metadata.SourceFilename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrEmptySource)
	}

	return nil
}

// ValidateBatch validates a FragmentBatch before it is checkpointed.
// An empty Fragments slice is valid: a file may legitimately yield nothing.
func ValidateBatch(batch *FragmentBatch) error {
	if batch == nil {
		return fmt.Errorf("%w: batch is nil", ErrInvalidBatch)
	}

	if batch.Basename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBatch, ErrEmptyBasename)
	}

	for i := range batch.Fragments {
		if err := ValidateFragment(&batch.Fragments[i]); err != nil {
			return fmt.Errorf("%w: fragment %d: %w", ErrInvalidBatch, i, err)
		}
		if batch.Fragments[i].Metadata.SourceFilename != batch.Basename {
			return fmt.Errorf("%w: fragment %d: %w", ErrInvalidBatch, i, ErrSourceMismatch)
		}
	}

	return nil
}

// ValidateArtifactInfo checks that the descriptor of a persisted artifact is complete.
func ValidateArtifactInfo(info *ArtifactInfo) error {
	if info == nil {
		return fmt.Errorf("%w: info is nil", ErrInvalidArtifactInfo)
	}
	if info.BuildID == "" {
		return fmt.Errorf("%w: build id is empty", ErrInvalidArtifactInfo)
	}
	if info.Model == "" {
		return fmt.Errorf("%w: model is empty", ErrInvalidArtifactInfo)
	}
	if info.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", ErrInvalidArtifactInfo)
	}
	if info.Count < 0 {
		return fmt.Errorf("%w: count cannot be negative", ErrInvalidArtifactInfo)
	}
	if len(info.Digest) != DigestSize {
		return fmt.Errorf("%w: digest must be %d bytes", ErrInvalidArtifactInfo, DigestSize)
	}
	return nil
}
