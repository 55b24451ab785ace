package extraction

import (
	"errors"
	"fmt"
)

// ErrOracleRequired is returned when no fragment oracle is provided.
var ErrOracleRequired = errors.New("fragment oracle required")

// ExtractionError reports a file that could not be turned into fragments.
// Attempts is zero when the table itself could not be loaded.
type ExtractionError struct {
	Basename string
	Attempts int
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Attempts == 0 {
		return fmt.Sprintf("%s: %v", e.Basename, e.Err)
	}
	return fmt.Sprintf("%s: failed after %d attempts: %v", e.Basename, e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
