package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MATCHENGINE_CONFIG is set
//  3. env (prefix MATCHENGINE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MATCHENGINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: MATCHENGINE_ADDR, MATCHENGINE_QUEUE_SIZE, ...
	// Map env keys like MATCHENGINE_QUEUE_SIZE -> queue_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MATCHENGINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "matchengine_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.MaxTopK < 1 {
		return fmt.Errorf("%w: max_top_k must be positive", ErrInvalidConfig)
	}
	if cfg.VectorWeight < 0 || cfg.FeatureWeight < 0 || cfg.VectorWeight+cfg.FeatureWeight <= 0 {
		return fmt.Errorf("%w: blend weights must be non-negative and sum to a positive value", ErrInvalidConfig)
	}
	switch cfg.EmbeddingProvider {
	case "local", "gemini":
	default:
		return fmt.Errorf("%w: unknown embedding_provider %q", ErrInvalidConfig, cfg.EmbeddingProvider)
	}
	if cfg.EmbeddingProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini_api_key is required for the gemini provider", ErrInvalidConfig)
	}
	return nil
}
