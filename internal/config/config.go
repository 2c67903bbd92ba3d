// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the ops HTTP listen address (/metrics, /healthz).
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory reindex task queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of indexing workers.
	WorkerCount int `koanf:"worker_count"`

	// FingerprintCacheSize bounds the in-memory fingerprint cache.
	FingerprintCacheSize int `koanf:"fingerprint_cache_size"`

	// RedisURL, when set, switches the fingerprint cache to Redis.
	RedisURL string `koanf:"redis_url"`

	// DatabaseURL, when set, switches candidate/posting repositories to
	// Postgres. Empty keeps the in-memory repositories.
	DatabaseURL string `koanf:"database_url"`

	// StorePath, when set, persists the vector store in a SQLite file.
	// Empty keeps the in-memory store.
	StorePath string `koanf:"store_path"`

	// MaxTopK caps the topK of a single retrieval.
	MaxTopK int `koanf:"max_top_k"`

	// EmbeddingProvider selects "local" or "gemini".
	EmbeddingProvider string `koanf:"embedding_provider"`

	// GeminiAPIKey authenticates the Gemini embedding provider.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel overrides the embedding model name.
	GeminiModel string `koanf:"gemini_model"`

	// EmbeddingDimensions sets the vector size for both providers.
	EmbeddingDimensions int `koanf:"embedding_dimensions"`

	// EmbeddingRateLimit bounds remote embedding calls per second.
	EmbeddingRateLimit float64 `koanf:"embedding_rate_limit"`

	// SweepIntervalHours sets the cadence of the reindex sweep.
	// Zero disables the sweep.
	SweepIntervalHours int `koanf:"sweep_interval_hours"`

	// VectorWeight and FeatureWeight configure the match blend policy.
	VectorWeight  float64 `koanf:"vector_weight"`
	FeatureWeight float64 `koanf:"feature_weight"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9090",
		QueueSize:            10_000,
		WorkerCount:          runtime.NumCPU() * 2,
		FingerprintCacheSize: 50_000,
		MaxTopK:              100,
		EmbeddingProvider:    "local",
		EmbeddingDimensions:  256,
		EmbeddingRateLimit:   5,
		SweepIntervalHours:   6,
		VectorWeight:         0.5,
		FeatureWeight:        0.5,
	}
}
