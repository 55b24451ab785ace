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

// Package ai provides abstractions for the model services used to build the
// TÜİK knowledge base.
//
// The package defines three interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - FragmentExtractor: turns a CSV table into data-point sentences
//   - AIProvider: aggregates both for convenient initialization
//
// # Implementation Packages
//
//   - ai/gemini: fragment extraction with Google Generative AI
//   - ai/openai: embeddings and extraction over OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Model output crosses a trust boundary. ParseFragmentList validates it and
// classifies failures as ErrBlocked, ErrEmptyResponse or ErrMalformedOutput
// so callers can tell a refusal from a shape problem.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithAPIKey(os.Getenv("GOOGLE_API_KEY")))
//	provider, err := gemini.NewProvider(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	sentences, err := provider.FragmentExtractor().ExtractFragments(ctx, csvText, "nufus.xlsx")
package ai
