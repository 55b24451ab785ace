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
	"fmt"

	"github.com/FatihSuicmez/TUIK-MCP/core"
)

// MarshalFragment serializes a Fragment to bytes.
func MarshalFragment(fragment *core.Fragment) []byte {
	buf := make([]byte, core.FragmentMUS.Size(*fragment))
	core.FragmentMUS.Marshal(*fragment, buf)
	return buf
}

// UnmarshalFragment deserializes a Fragment from bytes.
func UnmarshalFragment(data []byte) (*core.Fragment, error) {
	fragment, _, err := core.FragmentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: fragment: %w", ErrSerializationFailed, err)
	}
	return &fragment, nil
}

// MarshalFragmentBatch serializes a FragmentBatch to bytes.
func MarshalFragmentBatch(batch *core.FragmentBatch) []byte {
	buf := make([]byte, core.FragmentBatchMUS.Size(*batch))
	core.FragmentBatchMUS.Marshal(*batch, buf)
	return buf
}

// UnmarshalFragmentBatch deserializes a FragmentBatch from bytes.
// Trailing bytes after the batch are reported as ErrSerializationFailed.
func UnmarshalFragmentBatch(data []byte) (*core.FragmentBatch, error) {
	batch, n, err := core.FragmentBatchMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: fragment batch: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: fragment batch: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &batch, nil
}

// MarshalArtifactInfo serializes an ArtifactInfo to bytes.
func MarshalArtifactInfo(info *core.ArtifactInfo) []byte {
	buf := make([]byte, core.ArtifactInfoMUS.Size(*info))
	core.ArtifactInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalArtifactInfo deserializes an ArtifactInfo from bytes.
func UnmarshalArtifactInfo(data []byte) (*core.ArtifactInfo, error) {
	info, _, err := core.ArtifactInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: artifact info: %w", ErrSerializationFailed, err)
	}
	return &info, nil
}
