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

package ingestion

import (
	"context"

	"github.com/FatihSuicmez/TUIK-MCP/core"
)

// Processor turns one input file into fragments.
// Implementations must be safe for concurrent use and keep no shared
// mutable state; extraction.Extractor is the production implementation.
type Processor interface {
	Extract(ctx context.Context, desc core.InputDescriptor) ([]core.Fragment, error)
}

// Ledger receives exactly one outcome per processed file.
// Only the pipeline's collector calls it.
type Ledger interface {
	RecordSuccess(desc core.InputDescriptor, fragments []core.Fragment) error
	RecordFailure(desc core.InputDescriptor, cause error) error
}

// LedgerState is the read side of the ledger used to plan a run.
type LedgerState interface {
	IsCompleted(basename string) bool
	Failures() map[string]core.FailureRecord
}

// result is what a worker hands to the collector.
type result struct {
	desc      core.InputDescriptor
	fragments []core.Fragment
	err       error
}
