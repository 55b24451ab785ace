package ingestion

import "errors"

var (
	// ErrProcessorRequired is returned when a processor is not provided.
	ErrProcessorRequired = errors.New("processor required")

	// ErrLedgerRequired is returned when a ledger is not provided.
	ErrLedgerRequired = errors.New("ledger required")
)
