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

// Package retrieval answers similarity queries over a loaded index and corpus.
//
// A Service embeds the query with the model the index was built with,
// takes the nearest fragments and assembles a context block, a source
// list and a prompt for a downstream generation step. When the artifacts
// could not be loaded the Service stays constructible and every query
// fails with ErrServiceUnavailable.
package retrieval
