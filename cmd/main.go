package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/callahq/matchengine/internal/adapters/cache"
	"github.com/callahq/matchengine/internal/adapters/embedding"
	"github.com/callahq/matchengine/internal/adapters/repository"
	"github.com/callahq/matchengine/internal/adapters/vectorstore"
	"github.com/callahq/matchengine/internal/app"
	"github.com/callahq/matchengine/internal/config"
	"github.com/callahq/matchengine/pkg/logger"
	"github.com/callahq/matchengine/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts, err := buildOptions(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build service dependencies", logger.Error(err))
		return
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Ops endpoints only; the matching API is consumed in-process by the
	// surrounding platform.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting ops HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "ops HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "HTTP server shutdown failed", logger.Error(err))
	}
}

// buildOptions translates config into service options, constructing the
// configured adapter for each pluggable dependency.
func buildOptions(ctx context.Context, cfg *config.Config, log logger.Logger) ([]app.Option, error) {
	opts := []app.Option{
		app.WithLogger(log.Named("matchengine")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithMaxTopK(cfg.MaxTopK),
		app.WithBlendWeights(cfg.VectorWeight, cfg.FeatureWeight),
		app.WithSweepInterval(cfg.SweepIntervalHours),
	}

	switch cfg.EmbeddingProvider {
	case "gemini":
		geminiOpts := []embedding.GeminiOption{
			embedding.WithOutputDimensions(cfg.EmbeddingDimensions),
			embedding.WithRateLimit(cfg.EmbeddingRateLimit, int(cfg.EmbeddingRateLimit)*2),
		}
		if cfg.GeminiModel != "" {
			geminiOpts = append(geminiOpts, embedding.WithModel(cfg.GeminiModel))
		}
		emb, err := embedding.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, geminiOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithEmbedder(emb))
	default:
		opts = append(opts, app.WithEmbedder(
			embedding.NewLocalEmbedder(embedding.WithDimensions(cfg.EmbeddingDimensions))))
	}

	if cfg.StorePath != "" {
		store, err := vectorstore.OpenSQLite(ctx, cfg.StorePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithStore(store))
	}

	if cfg.RedisURL != "" {
		prints, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithFingerprintCache(prints))
	} else {
		opts = append(opts, app.WithFingerprintCache(
			cache.NewMemory(cache.WithMaxSize(cfg.FingerprintCacheSize))))
	}

	if cfg.DatabaseURL != "" {
		repo, err := repository.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithRepositories(repo, repo))
	}

	return opts, nil
}
