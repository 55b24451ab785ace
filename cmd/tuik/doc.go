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

// Command tuik builds and serves a searchable knowledge base over TÜİK
// statistics tables.
//
// Typical use:
//
//	tuik scan                      # write data.json from DATA/data/<category>/
//	tuik ingest                    # extract fragments, then build the index
//	tuik ingest --reprocess-failed # retry only files in failed_files.log
//	tuik status
//	tuik query "2023 yılında İstanbul'un nüfusu"
//	tuik serve --transport http --port 8070
package main
