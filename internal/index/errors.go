package index

import "errors"

// Sentinel kinds for indexing errors.
var (
	// ErrUnavailable marks a transient embedding or store failure. The
	// owner's previous index state is preserved; safe to retry with backoff.
	ErrUnavailable = errors.New("indexing unavailable")
)
