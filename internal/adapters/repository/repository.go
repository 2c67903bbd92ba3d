// Package repository defines read access to candidate and posting records.
// The matching engine does not own these entities: it reads their fields and
// writes back only the index-state reference after (re)indexing.
package repository

import (
	"context"

	"github.com/callahq/matchengine/internal/domain/model"
)

// Candidates provides candidate profile access.
type Candidates interface {
	// Candidate returns the profile for id, ErrNotFound if unknown.
	Candidate(ctx context.Context, id string) (model.CandidateProfile, error)

	// CandidateIDs lists all candidate ids, for reindex sweeps.
	CandidateIDs(ctx context.Context) ([]string, error)

	// SetCandidateIndexState records the vector-store reference for id.
	SetCandidateIndexState(ctx context.Context, id string, state model.IndexState) error
}

// Postings provides job posting access.
type Postings interface {
	// Posting returns the posting for id, ErrNotFound if unknown.
	Posting(ctx context.Context, id string) (model.JobPosting, error)

	// PostingIDs lists all posting ids, for reindex sweeps.
	PostingIDs(ctx context.Context) ([]string, error)

	// SetPostingIndexState records the vector-store reference for id.
	SetPostingIndexState(ctx context.Context, id string, state model.IndexState) error
}
