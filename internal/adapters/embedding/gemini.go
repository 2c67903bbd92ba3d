package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Default Gemini embedder configuration constants.
const (
	defaultGeminiModel      = "gemini-embedding-001"
	defaultGeminiDimensions = 768
	defaultRequestsPerSec   = 5
	defaultBurst            = 10
)

// GeminiOption applies a configuration option to the GeminiEmbedder.
type GeminiOption func(*GeminiEmbedder)

// WithModel overrides the embedding model name.
func WithModel(model string) GeminiOption {
	return func(e *GeminiEmbedder) {
		if m := strings.TrimSpace(model); m != "" {
			e.model = m
		}
	}
}

// WithOutputDimensions sets the requested output dimensionality.
func WithOutputDimensions(n int) GeminiOption {
	return func(e *GeminiEmbedder) {
		if n > 0 {
			e.dimensions = n
		}
	}
}

// WithRateLimit bounds outbound embedding calls per second.
func WithRateLimit(perSecond float64, burst int) GeminiOption {
	return func(e *GeminiEmbedder) {
		if perSecond > 0 && burst > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// GeminiEmbedder calls the Gemini embedding API through the GenAI SDK.
// A client-side rate limiter keeps bulk reindexing inside API quotas.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
	limiter    *rate.Limiter
}

// NewGeminiEmbedder creates a Gemini-backed embedder.
func NewGeminiEmbedder(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiEmbedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	e := &GeminiEmbedder{
		client:     client,
		model:      defaultGeminiModel,
		dimensions: defaultGeminiDimensions,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSec), defaultBurst),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Dimensions returns the requested output dimensionality.
func (e *GeminiEmbedder) Dimensions() int { return e.dimensions }

// Embed requests a single embedding. Transient API failures are wrapped as
// ErrUnavailable so callers can map them to their own retryable conditions.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	dims := int32(e.dimensions)
	resp, err := e.client.Models.EmbedContent(ctx, e.model,
		genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &dims},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}
	return resp.Embeddings[0].Values, nil
}
