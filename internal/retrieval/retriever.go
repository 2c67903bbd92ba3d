// Package retrieval answers top-K nearest-neighbor queries over the
// vector store.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/callahq/matchengine/internal/adapters/embedding"
	"github.com/callahq/matchengine/internal/adapters/vectorstore"
	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/pkg/metrics"
)

// Default retriever configuration constants.
const (
	defaultMaxTopK = 100
)

// Match is one retrieval hit: a stored document plus its true cosine
// similarity to the query embedding.
type Match struct {
	DocumentID string
	Kind       model.OwnerKind
	OwnerID    string
	Meta       map[string]string
	Similarity float64
}

// Option applies a configuration option to the Retriever.
type Option func(*Retriever)

// WithMaxTopK caps the topK a caller may request.
func WithMaxTopK(maxTopK int) Option {
	return func(r *Retriever) {
		if maxTopK > 0 {
			r.maxTopK = maxTopK
		}
	}
}

// Retriever embeds query text with the same embedder used at indexing time
// and searches the store. The underlying index is type-agnostic, so results
// are filtered to the requested document kind after retrieval.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorstore.Store
	maxTopK  int
}

// New constructs a Retriever.
func New(embedder embedding.Embedder, store vectorstore.Store, opts ...Option) *Retriever {
	r := &Retriever{
		embedder: embedder,
		store:    store,
		maxTopK:  defaultMaxTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search returns up to topK documents of the given kind ordered by
// descending similarity. topK is clamped to the configured maximum;
// non-positive values are an ErrInvalidQuery. Ordering is stable for
// identical index state and identical query text.
func (r *Retriever) Search(ctx context.Context, queryText string, topK int, kind model.OwnerKind) ([]Match, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRetrievalLatency(float64(time.Since(start).Milliseconds()))
	}()

	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("%w: empty query text", ErrInvalidQuery)
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be positive", ErrInvalidQuery)
	}
	if topK > r.maxTopK {
		topK = r.maxTopK
	}

	vector, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		metrics.RecordEmbeddingError()
		return nil, fmt.Errorf("%w: embed query: %v", ErrUnavailable, err)
	}

	// Over-fetch so the kind filter below still fills topK when the index
	// holds a mix of CVs and offers.
	hits, err := r.store.Query(ctx, vector, topK*2)
	if err != nil {
		if errors.Is(err, vectorstore.ErrInvalidLimit) || errors.Is(err, vectorstore.ErrInvalidVector) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	matches := make([]Match, 0, topK)
	for _, hit := range hits {
		if kind != "" && hit.Kind != kind {
			continue
		}
		matches = append(matches, Match{
			DocumentID: hit.ID,
			Kind:       hit.Kind,
			OwnerID:    hit.Owner,
			Meta:       hit.Meta,
			Similarity: hit.Similarity,
		})
		if len(matches) == topK {
			break
		}
	}
	metrics.RecordRetrieval(len(matches))
	return matches, nil
}
