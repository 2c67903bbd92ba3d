package retrieval

import "errors"

// Sentinel kinds for retrieval errors.
var (
	// ErrInvalidQuery marks caller errors: empty query text or a
	// non-positive topK. Not retried automatically.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnavailable marks a transient embedding or store failure.
	// Safe to retry with backoff.
	ErrUnavailable = errors.New("retrieval unavailable")
)
