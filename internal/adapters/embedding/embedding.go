// Package embedding defines the contract for turning text into semantic
// vectors, plus the provider implementations used at indexing and query time.
// Indexing and retrieval must embed with the same provider so stored and
// query vectors live in the same space.
package embedding

import "context"

// Embedder generates a fixed-size vector representation of text.
// Implementations must be deterministic for identical text and model version.
type Embedder interface {
	// Embed computes the vector for text, honoring ctx for cancellation
	// and deadlines.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector size this embedder produces.
	Dimensions() int
}
