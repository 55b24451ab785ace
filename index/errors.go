package index

import "errors"

var (
	// ErrNoVectors is returned when building an index from zero vectors.
	ErrNoVectors = errors.New("no vectors to index")

	// ErrDimensionMismatch is returned for vectors of the wrong length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidK is returned for a non-positive k.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidMagic is returned for files that are not index files.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrInvalidVersion is returned for index files of an unknown version.
	ErrInvalidVersion = errors.New("unsupported index version")

	// ErrChecksum is returned when the stored CRC does not match the contents.
	ErrChecksum = errors.New("index checksum mismatch")

	// ErrCorruptIndex is returned for structurally invalid index files.
	ErrCorruptIndex = errors.New("corrupt index file")
)
