// Package vectorstore defines the embedding index contract and its
// implementations. The store is the only shared mutable state in the
// matching engine: upserts replace whole documents so concurrent readers
// observe either the old or the new version, never a mix.
package vectorstore

import (
	"context"

	"github.com/callahq/matchengine/internal/domain/model"
)

// Document is one indexed owner in the store. At most one document exists
// per (kind, owner id) pair; its ID is derived from that pair.
type Document struct {
	ID     string
	Kind   model.OwnerKind
	Owner  string
	Vector []float32
	Text   string
	Meta   map[string]string
}

// Hit is a nearest-neighbor result. Similarity is the exact cosine between
// the stored vector and the query vector, in [-1, 1].
type Hit struct {
	ID         string
	Kind       model.OwnerKind
	Owner      string
	Meta       map[string]string
	Similarity float64
}

// Store provides write and nearest-neighbor read access to the index.
type Store interface {
	// Upsert stores doc, replacing any previous document with the same id.
	// The replacement is all-or-nothing.
	Upsert(ctx context.Context, doc Document) error

	// Query returns up to topK documents ordered by descending cosine
	// similarity to vector, ties broken by id ascending.
	Query(ctx context.Context, vector []float32, topK int) ([]Hit, error)

	// Delete removes the document with the given id; unknown ids are a no-op.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}
