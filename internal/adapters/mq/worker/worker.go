// Package worker drains the reindex queue and rebuilds documents.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/callahq/matchengine/internal/adapters/mq/queue"
	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/pkg/logger"
	"github.com/callahq/matchengine/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Reindexer rebuilds the document for one owner. A failure affects only
// that task; the worker keeps draining.
type Reindexer interface {
	Reindex(ctx context.Context, kind model.OwnerKind, ownerID string) error
}

// TaskSource defines how workers receive tasks.
type TaskSource interface {
	Dequeue(ctx context.Context) <-chan queue.Task
}

// Worker processes reindex tasks until stopped.
type Worker struct {
	source    TaskSource
	reindexer Reindexer
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name used for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// NewWorker creates a worker reading from source.
func NewWorker(source TaskSource, reindexer Reindexer, opts ...Option) *Worker {
	w := &Worker{
		source:    source,
		reindexer: reindexer,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Get().Named(w.name)
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case task, ok := <-tasks:
			if !ok {
				return
			}
			w.process(ctx, task)
		}
	}
}

// Shutdown stops the worker and waits for in-flight work.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, task queue.Task) {
	start := time.Now()
	err := w.reindexer.Reindex(ctx, task.Kind, task.OwnerID)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "reindex failed",
			logger.String("kind", string(task.Kind)),
			logger.String("owner", task.OwnerID),
			logger.Error(err),
		)
	}
}

// Pool manages a fixed set of workers over one task source.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates workerCount workers; non-positive counts default to a
// multiple of the CPU count.
func NewPool(workerCount int, source TaskSource, reindexer Reindexer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(source, reindexer, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits briefly for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
