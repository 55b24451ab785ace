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

// repairJSON fixes a formatting slip common in LLM responses: a trailing
// comma before a closing bracket or brace. Text inside strings is untouched.
func repairJSON(s string) string {
	in := []rune(s)
	fixed := make([]rune, 0, len(in))

	inString := false
	escaped := false
	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			fixed = append(fixed, ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			fixed = append(fixed, ch)
			continue
		}

		if ch == ',' {
			// Look past whitespace for a closer
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				j++
			}
			if j < len(in) && (in[j] == ']' || in[j] == '}') {
				continue
			}
		}
		fixed = append(fixed, ch)
	}

	return string(fixed)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
