package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/callahq/matchengine/internal/domain/normalize"
)

// Default local embedder configuration constants.
const (
	defaultLocalDimensions = 256
)

// LocalOption applies a configuration option to the LocalEmbedder.
type LocalOption func(*LocalEmbedder)

// WithDimensions sets the output vector size.
func WithDimensions(n int) LocalOption {
	return func(e *LocalEmbedder) {
		if n > 0 {
			e.dimensions = n
		}
	}
}

// LocalEmbedder is a deterministic, dependency-free embedder using token
// feature hashing. It captures lexical overlap rather than deep semantics
// and serves offline deployments and tests; production deployments use the
// Gemini provider.
type LocalEmbedder struct {
	dimensions int
}

// NewLocalEmbedder creates a local hashing embedder.
func NewLocalEmbedder(opts ...LocalOption) *LocalEmbedder {
	e := &LocalEmbedder{dimensions: defaultLocalDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimensions returns the configured vector size.
func (e *LocalEmbedder) Dimensions() int { return e.dimensions }

// Embed hashes each token into a bucket with an alternating sign and
// L2-normalizes the result, so cosine similarity over outputs reflects
// token overlap. Identical text always yields an identical vector.
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	vec := make([]float32, e.dimensions)
	for _, tok := range normalize.Words(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		bucket := int(sum % uint64(e.dimensions))
		sign := float32(1)
		if (sum>>63)&1 == 1 {
			sign = -1
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// Text had only stop words or short tokens; keep a stable
		// non-zero vector so cosine stays defined.
		vec[0] = 1
		return vec, nil
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec, nil
}
