package retrieval

import "errors"

var (
	// ErrServiceUnavailable is returned by every query when the retrieval
	// artifacts could not be loaded. The load cause is wrapped with it.
	ErrServiceUnavailable = errors.New("retrieval service unavailable")

	// ErrModelMismatch is returned when the query embedder is not the model
	// the index was built with.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrArtifactMismatch is returned when the index and corpus were not
	// built together.
	ErrArtifactMismatch = errors.New("index and corpus do not match")

	// ErrEmbedderRequired is returned when no query embedder is provided.
	ErrEmbedderRequired = errors.New("query embedder required")

	// ErrNoArtifacts is returned when no artifacts are provided.
	ErrNoArtifacts = errors.New("retrieval artifacts required")

	// ErrEmptyQuery is returned for blank queries.
	ErrEmptyQuery = errors.New("query cannot be empty")
)
