// Package scheduler wires up the cron job that periodically sweeps
// candidates and postings into the reindex queue. The sweep is cheap for
// unchanged content: the fingerprint cache turns those tasks into no-ops.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/callahq/matchengine/internal/adapters/mq/queue"
	"github.com/callahq/matchengine/internal/adapters/repository"
	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/pkg/logger"
)

// Scheduler wraps robfig/cron and manages the reindex sweep loop.
type Scheduler struct {
	cron       *cron.Cron
	candidates repository.Candidates
	postings   repository.Postings
	tasks      queue.Queue
	spec       string // cron spec, e.g. "@every 6h"
	logger     logger.Logger
}

// New creates a Scheduler that sweeps every intervalHours hours.
func New(candidates repository.Candidates, postings repository.Postings, tasks queue.Queue, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		candidates: candidates,
		postings:   postings,
		tasks:      tasks,
		spec:       fmt.Sprintf("@every %dh", intervalHours),
		logger:     logger.Get().Named("scheduler"),
	}
}

// Start registers the sweep and starts the scheduler. Also runs one sweep
// immediately so a fresh deployment populates the index without waiting
// for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info(ctx, "reindex sweep scheduled", logger.String("spec", s.spec))

	go s.sweep(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// sweep enqueues a reindex task for every known candidate and posting.
func (s *Scheduler) sweep(ctx context.Context) {
	enqueued := 0

	candidateIDs, err := s.candidates.CandidateIDs(ctx)
	if err != nil {
		s.logger.Error(ctx, "sweep: list candidates", logger.Error(err))
	}
	for _, id := range candidateIDs {
		if s.tasks.Enqueue(ctx, queue.Task{Kind: model.KindCandidate, OwnerID: id}) {
			enqueued++
		}
	}

	postingIDs, err := s.postings.PostingIDs(ctx)
	if err != nil {
		s.logger.Error(ctx, "sweep: list postings", logger.Error(err))
	}
	for _, id := range postingIDs {
		if s.tasks.Enqueue(ctx, queue.Task{Kind: model.KindPosting, OwnerID: id}) {
			enqueued++
		}
	}

	s.logger.Info(ctx, "reindex sweep complete", logger.Int("enqueued", enqueued))
}
