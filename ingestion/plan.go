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

import "github.com/FatihSuicmez/TUIK-MCP/core"

// Mode selects which manifest entries a run dispatches.
type Mode int

const (
	// ModeNormal processes every manifest entry not yet completed.
	ModeNormal Mode = iota

	// ModeReprocessFailed processes only entries named in the failure log.
	ModeReprocessFailed
)

func (m Mode) String() string {
	switch m {
	case ModeReprocessFailed:
		return "reprocess-failed"
	default:
		return "normal"
	}
}

// Plan is the work selected for one run.
type Plan struct {
	Mode    Mode
	Pending []core.InputDescriptor
	// Skipped counts manifest entries left out of Pending.
	Skipped int
}

// NewPlan selects pending work from the resolved manifest.
// In reprocess mode an entry is pending when its basename has a failure
// record, whether or not it was also completed.
func NewPlan(files []core.InputDescriptor, state LedgerState, mode Mode) *Plan {
	plan := &Plan{Mode: mode, Pending: []core.InputDescriptor{}}

	var failures map[string]core.FailureRecord
	if mode == ModeReprocessFailed {
		failures = state.Failures()
	}

	for _, desc := range files {
		name := desc.Basename()
		var pending bool
		switch mode {
		case ModeReprocessFailed:
			_, pending = failures[name]
		default:
			pending = !state.IsCompleted(name)
		}
		if pending {
			plan.Pending = append(plan.Pending, desc)
		} else {
			plan.Skipped++
		}
	}
	return plan
}
