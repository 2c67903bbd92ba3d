// Package app provides the matching service that wires indexing, retrieval,
// scoring and aggregation behind one façade for the surrounding platform.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/callahq/matchengine/internal/adapters/cache"
	"github.com/callahq/matchengine/internal/adapters/embedding"
	taskqueue "github.com/callahq/matchengine/internal/adapters/mq/queue"
	workerpool "github.com/callahq/matchengine/internal/adapters/mq/worker"
	"github.com/callahq/matchengine/internal/adapters/repository"
	"github.com/callahq/matchengine/internal/adapters/vectorstore"
	"github.com/callahq/matchengine/internal/domain/matching"
	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/internal/domain/scoring"
	"github.com/callahq/matchengine/internal/index"
	"github.com/callahq/matchengine/internal/retrieval"
	"github.com/callahq/matchengine/internal/scheduler"
	"github.com/callahq/matchengine/pkg/logger"
	"github.com/callahq/matchengine/pkg/metrics"
)

// PairFailure reports one candidate/posting pair excluded from a ranked
// result. Failed pairs are reported, never silently dropped.
type PairFailure struct {
	CandidateID string
	PostingID   string
	Err         error
}

// MatchSet is the outcome of one match query: the ranked results plus any
// per-pair failures.
type MatchSet struct {
	Results  []matching.Result
	Failures []PairFailure
}

// Service implements the matching engine façade.
type Service struct {
	mu sync.RWMutex

	// Core components
	embedder   embedding.Embedder
	store      vectorstore.Store
	candidates repository.Candidates
	postings   repository.Postings
	prints     cache.Cache
	indexer    *index.Indexer
	retriever  *retrieval.Retriever
	scorer     *scoring.FeatureScorer
	aggregator *matching.Aggregator
	tasks      taskqueue.Queue
	workers    *workerpool.Pool
	sweeper    *scheduler.Scheduler

	// Configuration
	workerCount      int
	queueSize        int
	printCacheSize   int
	maxTopK          int
	matchConcurrency int
	sweepInterval    int // hours; 0 disables the sweep
	vectorWeight     float64
	featureWeight    float64
	scorerOpts       []scoring.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEmbedder sets the embedding provider. Defaults to the local hashing
// embedder.
func WithEmbedder(e embedding.Embedder) Option {
	return func(s *Service) {
		if e != nil {
			s.embedder = e
		}
	}
}

// WithStore sets the vector store. Defaults to the in-memory store.
func WithStore(st vectorstore.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRepositories sets the candidate and posting repositories.
func WithRepositories(c repository.Candidates, p repository.Postings) Option {
	return func(s *Service) {
		if c != nil {
			s.candidates = c
		}
		if p != nil {
			s.postings = p
		}
	}
}

// WithFingerprintCache sets the content fingerprint cache.
func WithFingerprintCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.prints = c
		}
	}
}

// WithWorkerCount sets the number of indexing workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the reindex task queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxTopK caps retrieval fan-out per match query.
func WithMaxTopK(maxTopK int) Option {
	return func(s *Service) {
		if maxTopK > 0 {
			s.maxTopK = maxTopK
		}
	}
}

// WithMatchConcurrency bounds concurrent pair scoring in a batch.
func WithMatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.matchConcurrency = n
		}
	}
}

// WithBlendWeights sets the vector/feature blend policy weights.
func WithBlendWeights(vector, feature float64) Option {
	return func(s *Service) {
		if vector >= 0 && feature >= 0 && vector+feature > 0 {
			s.vectorWeight = vector
			s.featureWeight = feature
		}
	}
}

// WithScorerOptions forwards options to the feature scorer.
func WithScorerOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scorerOpts = append(s.scorerOpts, opts...)
	}
}

// WithSweepInterval sets the reindex sweep cadence in hours; 0 disables it.
func WithSweepInterval(hours int) Option {
	return func(s *Service) {
		if hours >= 0 {
			s.sweepInterval = hours
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		printCacheSize:   50_000,
		maxTopK:          100,
		matchConcurrency: runtime.NumCPU(),
		sweepInterval:    0,
		vectorWeight:     0.5,
		featureWeight:    0.5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes components and launches the indexing workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("matchengine")
	}

	if s.embedder == nil {
		s.embedder = embedding.NewLocalEmbedder()
	}
	if s.store == nil {
		s.store = vectorstore.NewMemStore()
	}
	if s.candidates == nil || s.postings == nil {
		mem := repository.NewMemory()
		if s.candidates == nil {
			s.candidates = mem
		}
		if s.postings == nil {
			s.postings = mem
		}
	}
	if s.prints == nil {
		s.prints = cache.NewMemory(cache.WithMaxSize(s.printCacheSize))
	}

	s.indexer = index.New(s.embedder, s.store, &stateWriter{s},
		index.WithFingerprintCache(s.prints),
		index.WithLogger(s.logger.Named("indexer")),
	)
	s.retriever = retrieval.New(s.embedder, s.store, retrieval.WithMaxTopK(s.maxTopK))
	s.scorer = scoring.New(s.scorerOpts...)
	s.aggregator = matching.New(matching.WithWeights(s.vectorWeight, s.featureWeight))

	s.tasks = taskqueue.NewInMemoryQueue(taskqueue.WithCapacity(s.queueSize))
	s.workers = workerpool.NewPool(s.workerCount, s.tasks, s)
	s.workers.Start(ctx)

	if s.sweepInterval > 0 {
		s.sweeper = scheduler.New(s.candidates, s.postings, s.tasks, s.sweepInterval)
		if err := s.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("start sweep scheduler: %w", err)
		}
	}

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxTopK", s.maxTopK),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	if s.tasks != nil {
		_ = s.tasks.Close()
	}
	if s.workers != nil {
		s.workers.Stop()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// stateWriter routes index-state updates to the owning repository.
type stateWriter struct {
	s *Service
}

func (w *stateWriter) SetIndexState(ctx context.Context, kind model.OwnerKind, ownerID string, state model.IndexState) error {
	switch kind {
	case model.KindCandidate:
		return w.s.candidates.SetCandidateIndexState(ctx, ownerID, state)
	case model.KindPosting:
		return w.s.postings.SetPostingIndexState(ctx, ownerID, state)
	default:
		return fmt.Errorf("unknown owner kind %q", kind)
	}
}

// IndexCandidate synchronously (re)indexes one candidate profile.
func (s *Service) IndexCandidate(ctx context.Context, candidateID string) (index.Result, error) {
	c, err := s.candidates.Candidate(ctx, candidateID)
	if err != nil {
		return index.Result{}, fmt.Errorf("load candidate %s: %w", candidateID, err)
	}
	return s.indexer.Index(ctx, model.KindCandidate, c.ID, candidateDocText(c), candidateMeta(c))
}

// IndexPosting synchronously (re)indexes one job posting. Postings that are
// not published are removed from the index so they stop participating in
// retrieval.
func (s *Service) IndexPosting(ctx context.Context, postingID string) (index.Result, error) {
	p, err := s.postings.Posting(ctx, postingID)
	if err != nil {
		return index.Result{}, fmt.Errorf("load posting %s: %w", postingID, err)
	}
	if !p.Open() {
		if err := s.indexer.Remove(ctx, model.KindPosting, p.ID); err != nil {
			return index.Result{}, err
		}
		return index.Result{Skipped: true, Reason: "posting not open"}, nil
	}
	return s.indexer.Index(ctx, model.KindPosting, p.ID, postingDocText(p), postingMeta(p))
}

// Reindex implements the worker contract: rebuild one owner's document.
func (s *Service) Reindex(ctx context.Context, kind model.OwnerKind, ownerID string) error {
	var err error
	switch kind {
	case model.KindCandidate:
		_, err = s.IndexCandidate(ctx, ownerID)
	case model.KindPosting:
		_, err = s.IndexPosting(ctx, ownerID)
	default:
		err = fmt.Errorf("unknown owner kind %q", kind)
	}
	return err
}

// EnqueueReindex schedules an asynchronous reindex. Returns false when the
// queue is full or closed.
func (s *Service) EnqueueReindex(ctx context.Context, kind model.OwnerKind, ownerID string) bool {
	return s.tasks.Enqueue(ctx, taskqueue.Task{Kind: kind, OwnerID: ownerID})
}

// MatchCandidatesForPosting retrieves the topK most similar candidates for a
// posting and scores each pair. A single pair's failure is reported in the
// MatchSet and does not abort the batch.
func (s *Service) MatchCandidatesForPosting(ctx context.Context, postingID string, topK int) (MatchSet, error) {
	start := time.Now()
	defer func() {
		metrics.RecordMatchLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordMatchRequest()

	posting, err := s.postings.Posting(ctx, postingID)
	if err != nil {
		return MatchSet{}, fmt.Errorf("load posting %s: %w", postingID, err)
	}

	hits, err := s.retriever.Search(ctx, postingDocText(posting), topK, model.KindCandidate)
	if err != nil {
		return MatchSet{}, err
	}

	return s.scorePairs(ctx, hits, func(ctx context.Context, hit retrieval.Match) (matching.Result, error) {
		candidate, err := s.candidates.Candidate(ctx, hit.OwnerID)
		if err != nil {
			return matching.Result{}, fmt.Errorf("load candidate %s: %w", hit.OwnerID, err)
		}
		features := s.scorer.Score(candidate, posting)
		return s.aggregator.Aggregate(candidate.ID, posting.ID, hit.Similarity, features)
	}, func(hit retrieval.Match) PairFailure {
		return PairFailure{CandidateID: hit.OwnerID, PostingID: postingID}
	})
}

// MatchPostingsForCandidate retrieves the topK most similar open postings for
// a candidate and scores each pair.
func (s *Service) MatchPostingsForCandidate(ctx context.Context, candidateID string, topK int) (MatchSet, error) {
	start := time.Now()
	defer func() {
		metrics.RecordMatchLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordMatchRequest()

	candidate, err := s.candidates.Candidate(ctx, candidateID)
	if err != nil {
		return MatchSet{}, fmt.Errorf("load candidate %s: %w", candidateID, err)
	}
	if strings.TrimSpace(candidate.Resume) == "" {
		return MatchSet{}, fmt.Errorf("%w: candidate %s has no résumé text", retrieval.ErrInvalidQuery, candidateID)
	}

	hits, err := s.retriever.Search(ctx, candidateDocText(candidate), topK, model.KindPosting)
	if err != nil {
		return MatchSet{}, err
	}

	return s.scorePairs(ctx, hits, func(ctx context.Context, hit retrieval.Match) (matching.Result, error) {
		posting, err := s.postings.Posting(ctx, hit.OwnerID)
		if err != nil {
			return matching.Result{}, fmt.Errorf("load posting %s: %w", hit.OwnerID, err)
		}
		if !posting.Open() {
			return matching.Result{}, errPostingClosed
		}
		features := s.scorer.Score(candidate, posting)
		return s.aggregator.Aggregate(candidate.ID, posting.ID, hit.Similarity, features)
	}, func(hit retrieval.Match) PairFailure {
		return PairFailure{CandidateID: candidateID, PostingID: hit.OwnerID}
	})
}

// scorePairs evaluates one pair per retrieval hit with bounded concurrency.
func (s *Service) scorePairs(
	ctx context.Context,
	hits []retrieval.Match,
	score func(context.Context, retrieval.Match) (matching.Result, error),
	failure func(retrieval.Match) PairFailure,
) (MatchSet, error) {
	results := make([]*matching.Result, len(hits))
	failures := make([]*PairFailure, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.matchConcurrency)
	for i, hit := range hits {
		g.Go(func() error {
			res, err := score(gctx, hit)
			if err != nil {
				if err == errPostingClosed {
					// Stale index entry, not a failure worth reporting.
					return nil
				}
				metrics.RecordMatchPairFailure()
				f := failure(hit)
				f.Err = err
				failures[i] = &f
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	// Closures never return an error; Wait only surfaces ctx cancellation.
	if err := g.Wait(); err != nil {
		return MatchSet{}, err
	}

	set := MatchSet{}
	for i := range hits {
		if results[i] != nil {
			set.Results = append(set.Results, *results[i])
		}
		if failures[i] != nil {
			set.Failures = append(set.Failures, *failures[i])
		}
	}
	rankResults(set.Results)
	return set, nil
}

// rankResults orders by blended score desc, similarity desc, then ids asc.
func rankResults(results []matching.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if results[i].CandidateID != results[j].CandidateID {
			return results[i].CandidateID < results[j].CandidateID
		}
		return results[i].PostingID < results[j].PostingID
	})
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.started {
		stats["queueLength"] = s.tasks.Len(ctx)
		if n, err := s.store.Count(ctx); err == nil {
			stats["documents"] = n
			metrics.UpdateStoreDocumentsTotal(n)
		}
		stats["fingerprints"] = s.prints.Size()
	}
	return stats
}
