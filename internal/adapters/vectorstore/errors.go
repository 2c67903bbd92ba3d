package vectorstore

import "errors"

// Sentinel kinds for store errors.
var (
	ErrInvalidVector = errors.New("invalid vector")
	ErrInvalidLimit  = errors.New("invalid topK limit")
	ErrUnavailable   = errors.New("vector store unavailable")
)
