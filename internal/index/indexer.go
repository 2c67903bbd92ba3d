// Package index converts candidate profiles and job postings into semantic
// documents and upserts them into the vector store.
package index

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/callahq/matchengine/internal/adapters/cache"
	"github.com/callahq/matchengine/internal/adapters/embedding"
	"github.com/callahq/matchengine/internal/adapters/vectorstore"
	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/pkg/logger"
	"github.com/callahq/matchengine/pkg/metrics"
)

// StateWriter records the owner's index state after a successful upsert.
type StateWriter interface {
	SetIndexState(ctx context.Context, kind model.OwnerKind, ownerID string, state model.IndexState) error
}

// Result reports the outcome of one indexing call.
type Result struct {
	DocumentID string
	Skipped    bool
	Reason     string // set when Skipped: "no indexable content" or "content unchanged"
}

// Option applies a configuration option to the Indexer.
type Option func(*Indexer)

// WithFingerprintCache enables skip-on-unchanged-content behavior.
func WithFingerprintCache(c cache.Cache) Option {
	return func(ix *Indexer) {
		if c != nil {
			ix.fingerprints = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(ix *Indexer) {
		if l != nil {
			ix.logger = l
		}
	}
}

// Indexer owns the write path: embed, upsert, record index state.
// Indexing is idempotent: the document id derives from (kind, owner id) and
// the upsert replaces, so indexing the same entity twice with the same text
// yields the same stored state.
type Indexer struct {
	embedder     embedding.Embedder
	store        vectorstore.Store
	states       StateWriter
	fingerprints cache.Cache
	logger       logger.Logger
}

// New constructs an Indexer.
func New(embedder embedding.Embedder, store vectorstore.Store, states StateWriter, opts ...Option) *Indexer {
	ix := &Indexer{
		embedder: embedder,
		store:    store,
		states:   states,
		logger:   logger.Get().Named("indexer"),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Index upserts one owner's text into the vector store.
//
// Empty text is a skipped result, never an error: a profile with no résumé
// or a posting with no description is expected input. A transient embedding
// or store failure surfaces as ErrUnavailable and leaves the owner in its
// previous index state; the upsert is all-or-nothing.
func (ix *Indexer) Index(ctx context.Context, kind model.OwnerKind, ownerID, text string, meta map[string]string) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if strings.TrimSpace(text) == "" {
		metrics.RecordIndexingSkipped()
		ix.logger.Debug(ctx, "nothing to index",
			logger.String("kind", string(kind)),
			logger.String("owner", ownerID),
		)
		return Result{Skipped: true, Reason: "no indexable content"}, nil
	}

	docID := model.DocumentID(kind, ownerID)
	fp := cache.Fingerprint(docID, text)
	if ix.fingerprints != nil && ix.fingerprints.SeenAndRecord(ctx, fp) {
		metrics.RecordIndexingSkipped()
		return Result{DocumentID: docID, Skipped: true, Reason: "content unchanged"}, nil
	}

	embedStart := time.Now()
	vector, err := ix.embedder.Embed(ctx, text)
	metrics.RecordEmbeddingLatency(float64(time.Since(embedStart).Milliseconds()))
	if err != nil {
		ix.forget(ctx, fp)
		metrics.RecordEmbeddingError()
		return Result{}, fmt.Errorf("%w: embed %s: %v", ErrUnavailable, docID, err)
	}

	doc := vectorstore.Document{
		ID:     docID,
		Kind:   kind,
		Owner:  ownerID,
		Vector: vector,
		Text:   text,
		Meta:   meta,
	}
	if err := ix.store.Upsert(ctx, doc); err != nil {
		ix.forget(ctx, fp)
		return Result{}, fmt.Errorf("%w: upsert %s: %v", ErrUnavailable, docID, err)
	}

	state := model.IndexState{
		Indexed:     true,
		DocumentID:  docID,
		Fingerprint: fp,
		IndexedAt:   time.Now().UTC(),
	}
	if err := ix.states.SetIndexState(ctx, kind, ownerID, state); err != nil {
		ix.forget(ctx, fp)
		return Result{}, fmt.Errorf("record index state for %s: %w", docID, err)
	}

	metrics.RecordDocumentIndexed()
	ix.logger.Debug(ctx, "indexed document",
		logger.String("doc", docID),
		logger.Int("vectorDims", len(vector)),
	)
	return Result{DocumentID: docID}, nil
}

// Remove deletes an owner's document, e.g. when a posting closes.
func (ix *Indexer) Remove(ctx context.Context, kind model.OwnerKind, ownerID string) error {
	docID := model.DocumentID(kind, ownerID)
	if err := ix.store.Delete(ctx, docID); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, docID, err)
	}
	return ix.states.SetIndexState(ctx, kind, ownerID, model.IndexState{})
}

func (ix *Indexer) forget(ctx context.Context, fp string) {
	if ix.fingerprints != nil {
		ix.fingerprints.Forget(ctx, fp)
	}
}
