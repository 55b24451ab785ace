package manifest

import "errors"

var (
	// ErrManifestUnreadable is returned when the manifest file cannot be read.
	ErrManifestUnreadable = errors.New("manifest cannot be read")

	// ErrManifestInvalid is returned when the manifest is not valid JSON or
	// has entries without a folder key.
	ErrManifestInvalid = errors.New("manifest is invalid")
)
