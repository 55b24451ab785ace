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

package mock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
)

// MockFragmentExtractor is a test double for ai.FragmentExtractor.
type MockFragmentExtractor struct {
	// ExtractFragmentsFunc is called by ExtractFragments if set.
	ExtractFragmentsFunc func(ctx context.Context, tableText, filename string) ([]string, error)

	callCount atomic.Int64
}

var _ ai.FragmentExtractor = (*MockFragmentExtractor)(nil)

// NewMockFragmentExtractor creates a mock fragment extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockFragmentExtractor() *MockFragmentExtractor {
	return &MockFragmentExtractor{}
}

// ExtractFragments returns one sentence per non-blank table line by default.
func (m *MockFragmentExtractor) ExtractFragments(ctx context.Context, tableText, filename string) ([]string, error) {
	m.callCount.Add(1)

	if m.ExtractFragmentsFunc != nil {
		return m.ExtractFragmentsFunc(ctx, tableText, filename)
	}

	fragments := []string{}
	for _, line := range strings.Split(tableText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fragments = append(fragments, fmt.Sprintf("%s tablosunda: %s", filename, line))
	}
	return fragments, nil
}

// CallCount returns the number of times ExtractFragments was called.
func (m *MockFragmentExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockFragmentExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractFragmentsFunc = nil
}
