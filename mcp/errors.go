package mcp

import "errors"

var (
	// ErrMissingStatusService is returned when the status port is not provided.
	ErrMissingStatusService = errors.New("mcp: status service is required")

	// ErrMissingRetriever is returned when the retrieval port is not provided.
	ErrMissingRetriever = errors.New("mcp: retriever is required")

	// ErrNoMatchingFiles is returned by select_files when nothing matches.
	ErrNoMatchingFiles = errors.New("no files match the question")

	// ErrInvalidPath is returned for file or folder names that leave the data root.
	ErrInvalidPath = errors.New("invalid file path")
)
