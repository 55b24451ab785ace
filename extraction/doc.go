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

// Package extraction turns one statistical spreadsheet into text fragments.
//
// The first sheet is reduced to bounded CSV text and handed to an
// ai.FragmentExtractor. Oracle calls are retried with exponential backoff;
// whatever still fails is reported as an *ExtractionError so that the
// ingestion pipeline can record it and move on.
package extraction
