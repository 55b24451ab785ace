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

// Package gemini implements fragment extraction with the Google Generative
// AI API.
//
// Requests run at temperature 0 with a JSON response type and the analyst
// persona as system instruction. Safety blocks reported by the API, either
// as a *genai.BlockedError or as prompt feedback on an empty response,
// surface as *ai.BlockedError carrying the reason name.
package gemini
