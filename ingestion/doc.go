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

// Package ingestion drives extraction of a set of spreadsheets.
//
// NewPlan picks the files a run must process from the resolved manifest
// and the ledger state. Pipeline.Run hands them to a fixed-size worker
// pool and commits each result as it arrives:
//   - a success is recorded with its fragments
//   - a failure is logged and recorded with its reason
//   - work interrupted by cancellation is left pending
//
// One file's failure never stops the pool.
package ingestion
