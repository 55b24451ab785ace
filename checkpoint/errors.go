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

package checkpoint

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptCheckpoint indicates a damaged record before the end of the
	// fragment checkpoint. Only a torn final record that belongs to no
	// completed file is repaired on Open.
	ErrCorruptCheckpoint = errors.New("corrupt fragment checkpoint")

	// ErrStoreClosed is returned by operations on a closed Store.
	ErrStoreClosed = errors.New("checkpoint store is closed")

	// ErrRecordTooLarge is returned for batches that do not fit a frame.
	ErrRecordTooLarge = errors.New("checkpoint record too large")
)

// CorruptionError locates a corrupt record in the fragment checkpoint.
type CorruptionError struct {
	Path   string
	Offset int64
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d: %s", ErrCorruptCheckpoint.Error(), e.Path, e.Offset, e.Reason)
}

// Is makes errors.Is(err, ErrCorruptCheckpoint) hold.
func (e *CorruptionError) Is(target error) bool {
	return target == ErrCorruptCheckpoint
}
