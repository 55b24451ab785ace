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

// Package mcp exposes ingestion status, retrieval and file selection as
// MCP (Model Context Protocol) tools over stdio or streamable HTTP.
//
// The server offers four tools:
//
//   - ingest_status: counts of completed, failed and pending files and the
//     state of the persisted index
//   - retrieve: nearest fragments for a question, their sources and a prompt
//   - select_files: keyword match of a question against the manifest
//   - preview_files: first rows of selected spreadsheets
//
// The last two are only registered when a Catalog port is supplied.
package mcp
