package vectorstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/callahq/matchengine/pkg/metrics"
)

// MemStore is the in-memory Store implementation: a map of documents with a
// brute-force cosine scan. Exact, not approximate; fine for the corpus sizes
// a single recruitment tenant produces.
//
// Ordering: similarity DESC, then document id ASC (deterministic).
type MemStore struct {
	mu   sync.RWMutex
	byID map[string]Document
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[string]Document)}
}

// Upsert replaces any existing document with the same id in one critical
// section, so readers never observe a partially written document.
func (s *MemStore) Upsert(ctx context.Context, doc Document) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpsertLatency(float64(time.Since(start).Milliseconds()))
	}()

	if len(doc.Vector) == 0 {
		return ErrInvalidVector
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	_, existed := s.byID[doc.ID]
	s.byID[doc.ID] = doc
	s.mu.Unlock()

	if !existed {
		metrics.UpdateStoreDocumentsTotal(s.count())
	}
	return nil
}

// Query scans all stored vectors and returns the topK nearest by cosine.
func (s *MemStore) Query(ctx context.Context, vector []float32, topK int) ([]Hit, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if topK < 1 {
		return nil, ErrInvalidLimit
	}
	if len(vector) == 0 {
		return nil, ErrInvalidVector
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	hits := make([]Hit, 0, len(s.byID))
	for _, doc := range s.byID {
		hits = append(hits, Hit{
			ID:         doc.ID,
			Kind:       doc.Kind,
			Owner:      doc.Owner,
			Meta:       doc.Meta,
			Similarity: Cosine(vector, doc.Vector),
		})
	}
	s.mu.RUnlock()

	sortHits(hits)
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Delete removes a document by id.
func (s *MemStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	metrics.UpdateStoreDocumentsTotal(s.count())
	return nil
}

// Count returns the number of stored documents.
func (s *MemStore) Count(ctx context.Context) (int, error) {
	return s.count(), nil
}

// Get returns a stored document by id. Used by tests and the demo tool.
func (s *MemStore) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.byID[id]
	return doc, ok
}

func (s *MemStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// sortHits orders by similarity desc, id asc on ties.
func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ID < hits[j].ID
	})
}
