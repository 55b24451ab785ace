// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder,
// ai.FragmentExtractor and ai.AIProvider for use in unit tests. The mocks
// run without external services and behave deterministically.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	extractor := mock.NewMockFragmentExtractor()
//	extractor.ExtractFragmentsFunc = func(ctx context.Context, table, file string) ([]string, error) {
//	    return nil, ai.ErrMalformedOutput
//	}
//
//	// Check call counts
//	count := extractor.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: unit vectors derived from a hash of the text
//   - MockFragmentExtractor: one sentence per non-blank table line
//   - MockProvider: aggregates mock embedder and extractor
package mock
