package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/callahq/matchengine/internal/domain/model"
)

// Memory implements Candidates and Postings in process memory.
// It backs tests and the demo tool; production deployments use Postgres.
type Memory struct {
	mu         sync.RWMutex
	candidates map[string]model.CandidateProfile
	postings   map[string]model.JobPosting
}

// NewMemory constructs an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		candidates: make(map[string]model.CandidateProfile),
		postings:   make(map[string]model.JobPosting),
	}
}

// PutCandidate stores or replaces a candidate profile.
func (m *Memory) PutCandidate(c model.CandidateProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[c.ID] = c
}

// PutPosting stores or replaces a job posting.
func (m *Memory) PutPosting(p model.JobPosting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postings[p.ID] = p
}

func (m *Memory) Candidate(ctx context.Context, id string) (model.CandidateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.candidates[id]
	if !ok {
		return model.CandidateProfile{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) CandidateIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.candidates))
	for id := range m.candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) SetCandidateIndexState(ctx context.Context, id string, state model.IndexState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return ErrNotFound
	}
	c.IndexState = state
	m.candidates[id] = c
	return nil
}

func (m *Memory) Posting(ctx context.Context, id string) (model.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.postings[id]
	if !ok {
		return model.JobPosting{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) PostingIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.postings))
	for id := range m.postings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) SetPostingIndexState(ctx context.Context, id string, state model.IndexState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.postings[id]
	if !ok {
		return ErrNotFound
	}
	p.IndexState = state
	m.postings[id] = p
	return nil
}
