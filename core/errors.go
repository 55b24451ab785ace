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

import "errors"

// Domain validation errors
var (
	// ErrInvalidFragment indicates a Fragment failed validation.
	ErrInvalidFragment = errors.New("invalid fragment")

	// ErrInvalidBatch indicates a FragmentBatch failed validation.
	ErrInvalidBatch = errors.New("invalid fragment batch")

	// ErrInvalidArtifactInfo indicates ArtifactInfo failed validation.
	ErrInvalidArtifactInfo = errors.New("invalid artifact info")

	// ErrEmptyText indicates the fragment Text field is empty.
	ErrEmptyText = errors.New("fragment text cannot be empty")

	// ErrEmptySource indicates the fragment has no source filename.
	ErrEmptySource = errors.New("fragment source filename cannot be empty")

	// ErrEmptyBasename indicates a batch has no basename.
	ErrEmptyBasename = errors.New("basename cannot be empty")

	// ErrSourceMismatch indicates a fragment in a batch names another file.
	ErrSourceMismatch = errors.New("fragment source does not match batch basename")
)
