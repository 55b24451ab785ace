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
	"encoding/json"
	"fmt"
	"strings"
)

// ParseFragmentList validates raw model output and returns its sentences.
//
// The output must be a JSON array of strings, optionally wrapped in a
// markdown code fence. Trailing commas are tolerated. Strings are returned
// as given. Anything else is ErrMalformedOutput.
func ParseFragmentList(content string) ([]string, error) {
	text := stripCodeFence(content)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(repairJSON(text)), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	fragments := make([]string, 0, len(items))
	for i, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: element %d is %s", ErrMalformedOutput, i, describeJSON(raw))
		}
		fragments = append(fragments, s)
	}
	return fragments, nil
}

// stripCodeFence removes a surrounding ```json ... ``` or ``` ... ``` fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func describeJSON(raw json.RawMessage) string {
	t := strings.TrimSpace(string(raw))
	switch {
	case t == "null":
		return "null"
	case strings.HasPrefix(t, "{"):
		return "an object"
	case strings.HasPrefix(t, "["):
		return "an array"
	case t == "true" || t == "false":
		return "a boolean"
	default:
		return "a number"
	}
}
