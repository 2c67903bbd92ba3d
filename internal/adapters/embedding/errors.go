package embedding

import "errors"

// Sentinel kinds for provider errors.
var (
	// ErrUnavailable marks a transient provider failure (timeout, network,
	// quota). Callers may retry with backoff.
	ErrUnavailable = errors.New("embedding provider unavailable")

	// ErrEmptyText is returned when there is nothing to embed.
	ErrEmptyText = errors.New("empty text")
)
