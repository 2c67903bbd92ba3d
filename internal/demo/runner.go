// Package demo runs an end-to-end exercise of the matching engine against a
// generated corpus: index candidates and postings, run match queries in both
// directions, and verify that results come back ranked and well-formed.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/callahq/matchengine/internal/adapters/repository"
	"github.com/callahq/matchengine/internal/app"
	"github.com/callahq/matchengine/pkg/logger"
)

// Config controls the demo run.
type Config struct {
	Candidates int
	Postings   int
	TopK       int
	Workers    int
	Verbose    bool
}

// Stats accumulates run statistics.
type Stats struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	Indexed      int
	Skipped      int
	Queries      int
	Results      int
	PairFailures int
}

// Run executes the complete demo.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("demo")
	stats := &Stats{StartTime: time.Now()}

	// Step 1: Generate the corpus and load it into an in-memory repository.
	candidates, postings := generateCorpus(ctx, cfg)
	repo := repository.NewMemory()
	for _, c := range candidates {
		repo.PutCandidate(c)
	}
	for _, p := range postings {
		repo.PutPosting(p)
	}

	// Step 2: Start the service with in-memory adapters.
	svc := app.New(
		app.WithRepositories(repo, repo),
		app.WithWorkerCount(cfg.Workers),
		app.WithMaxTopK(cfg.TopK),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Step 3: Index everything synchronously so queries see a full corpus.
	for _, c := range candidates {
		res, err := svc.IndexCandidate(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("index candidate %s: %w", c.ID, err)
		}
		if res.Skipped {
			stats.Skipped++
		} else {
			stats.Indexed++
		}
	}
	for _, p := range postings {
		res, err := svc.IndexPosting(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("index posting %s: %w", p.ID, err)
		}
		if res.Skipped {
			stats.Skipped++
		} else {
			stats.Indexed++
		}
	}
	log.Info(ctx, "corpus indexed",
		logger.Int("indexed", stats.Indexed),
		logger.Int("skipped", stats.Skipped))

	// Step 4: Match candidates for every posting.
	for _, p := range postings {
		set, err := svc.MatchCandidatesForPosting(ctx, p.ID, cfg.TopK)
		if err != nil {
			return fmt.Errorf("match candidates for posting %s: %w", p.ID, err)
		}
		stats.Queries++
		stats.Results += len(set.Results)
		stats.PairFailures += len(set.Failures)
		if err := verifyRanked(set); err != nil {
			return fmt.Errorf("posting %s: %w", p.ID, err)
		}
		if cfg.Verbose {
			logTop(ctx, log, "posting", p.ID, set)
		}
	}

	// Step 5: Match postings for every candidate.
	for _, c := range candidates {
		set, err := svc.MatchPostingsForCandidate(ctx, c.ID, cfg.TopK)
		if err != nil {
			return fmt.Errorf("match postings for candidate %s: %w", c.ID, err)
		}
		stats.Queries++
		stats.Results += len(set.Results)
		stats.PairFailures += len(set.Failures)
		if err := verifyRanked(set); err != nil {
			return fmt.Errorf("candidate %s: %w", c.ID, err)
		}
	}

	// Step 6: Re-index one candidate and confirm the fingerprint skip.
	if len(candidates) > 0 {
		res, err := svc.IndexCandidate(ctx, candidates[0].ID)
		if err != nil {
			return fmt.Errorf("reindex candidate: %w", err)
		}
		if !res.Skipped {
			return fmt.Errorf("expected unchanged candidate to skip reindex, got %+v", res)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "demo complete",
		logger.Int("queries", stats.Queries),
		logger.Int("results", stats.Results),
		logger.Int("pairFailures", stats.PairFailures),
		logger.String("duration", stats.Duration.String()))
	return nil
}

// verifyRanked checks the ordering and bounds invariants on one result set.
func verifyRanked(set app.MatchSet) error {
	for i, r := range set.Results {
		if r.Score < 0 || r.Score > 100 {
			return fmt.Errorf("result %d score %.2f outside [0, 100]", i, r.Score)
		}
		if r.Similarity < -1 || r.Similarity > 1 {
			return fmt.Errorf("result %d similarity %.4f outside [-1, 1]", i, r.Similarity)
		}
		if i > 0 && set.Results[i-1].Score < r.Score {
			return fmt.Errorf("results not ranked: score %.2f follows %.2f", r.Score, set.Results[i-1].Score)
		}
		if r.Justification == "" {
			return fmt.Errorf("result %d has no justification", i)
		}
	}
	return nil
}

func logTop(ctx context.Context, log logger.Logger, kind, id string, set app.MatchSet) {
	if len(set.Results) == 0 {
		log.Info(ctx, "no matches", logger.String(kind, id))
		return
	}
	top := set.Results[0]
	log.Info(ctx, "top match",
		logger.String(kind, id),
		logger.String("candidate", top.CandidateID),
		logger.String("posting", top.PostingID),
		logger.Float64("score", top.Score),
		logger.String("tier", string(top.Tier)),
		logger.String("why", top.Justification))
}

// ShowHelp prints usage for the demo binary.
func ShowHelp() {
	fmt.Println("matchengine demo - index a generated corpus and run match queries")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -candidates N  number of candidate profiles to generate (default 50)")
	fmt.Println("  -postings N    number of job postings to generate (default 20)")
	fmt.Println("  -top N         topK per match query (default 10)")
	fmt.Println("  -workers N     indexing worker count (default NumCPU)")
	fmt.Println("  -verbose       log the top match per posting")
}
