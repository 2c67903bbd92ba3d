package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/callahq/matchengine/internal/demo"
	"github.com/callahq/matchengine/pkg/logger"
)

// Default configuration constants.
const (
	defaultCandidates = 50
	defaultPostings   = 20
	defaultTopK       = 10
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		candidates = flag.Int("candidates", defaultCandidates, "Number of candidate profiles to generate")
		postings   = flag.Int("postings", defaultPostings, "Number of job postings to generate")
		topK       = flag.Int("top", defaultTopK, "TopK per match query")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of indexing workers")
		verbose    = flag.Bool("verbose", false, "Log the top match per posting")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		demo.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &demo.Config{
		Candidates: *candidates,
		Postings:   *postings,
		TopK:       *topK,
		Workers:    *workers,
		Verbose:    *verbose,
	}

	if err := demo.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("demo failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
