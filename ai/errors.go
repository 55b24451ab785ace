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

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when the extraction backend needs a key
	// and none is configured.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrBlocked is returned when the model refused to answer.
	// Errors of this class are *BlockedError values.
	ErrBlocked = errors.New("response blocked by safety filter")

	// ErrEmptyResponse is returned when the model answered with no content
	// and gave no block reason.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrMalformedOutput is returned when the model output is not a JSON
	// array of strings.
	ErrMalformedOutput = errors.New("model output is not a JSON array of strings")
)

// BlockedError carries the block reason reported by the model.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s (reason: %s)", ErrBlocked.Error(), e.Reason)
}

// Is makes errors.Is(err, ErrBlocked) hold for every BlockedError.
func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}
