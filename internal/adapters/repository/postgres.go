package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callahq/matchengine/internal/domain/model"
)

// Postgres implements Candidates and Postings against the platform database.
// Skills and experiences are loaded with explicit queries keyed by the
// owning id; there is no lazy loading or cascading.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates and verifies a pgx connection pool.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) Candidate(ctx context.Context, id string) (model.CandidateProfile, error) {
	var c model.CandidateProfile
	var indexedAt *time.Time
	err := p.pool.QueryRow(ctx, `
		SELECT id, resume, desired_salary_min, desired_salary_max, mobility,
		       available_now, indexed, document_id, fingerprint, indexed_at
		FROM candidates WHERE id = $1`, id).Scan(
		&c.ID, &c.Resume, &c.DesiredSalary.Min, &c.DesiredSalary.Max, &c.Mobility,
		&c.AvailableNow, &c.IndexState.Indexed, &c.IndexState.DocumentID,
		&c.IndexState.Fingerprint, &indexedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CandidateProfile{}, ErrNotFound
	}
	if err != nil {
		return model.CandidateProfile{}, fmt.Errorf("select candidate %s: %w", id, err)
	}
	if indexedAt != nil {
		c.IndexState.IndexedAt = *indexedAt
	}

	if c.Skills, err = p.candidateSkills(ctx, id); err != nil {
		return model.CandidateProfile{}, err
	}
	if c.Experiences, err = p.candidateExperiences(ctx, id); err != nil {
		return model.CandidateProfile{}, err
	}
	return c, nil
}

func (p *Postgres) candidateSkills(ctx context.Context, id string) ([]model.Skill, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT name, years, level FROM candidate_skills
		WHERE candidate_id = $1 ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("select skills for %s: %w", id, err)
	}
	defer rows.Close()

	var skills []model.Skill
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.Name, &s.Years, &s.Level); err != nil {
			return nil, fmt.Errorf("scan skill for %s: %w", id, err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (p *Postgres) candidateExperiences(ctx context.Context, id string) ([]model.Experience, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT title, start_date, end_date, current FROM candidate_experiences
		WHERE candidate_id = $1 ORDER BY start_date`, id)
	if err != nil {
		return nil, fmt.Errorf("select experiences for %s: %w", id, err)
	}
	defer rows.Close()

	var exps []model.Experience
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.Title, &e.Start, &e.End, &e.Current); err != nil {
			return nil, fmt.Errorf("scan experience for %s: %w", id, err)
		}
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

func (p *Postgres) CandidateIDs(ctx context.Context) ([]string, error) {
	return p.ids(ctx, `SELECT id FROM candidates ORDER BY id`)
}

func (p *Postgres) SetCandidateIndexState(ctx context.Context, id string, state model.IndexState) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE candidates
		SET indexed = $2, document_id = $3, fingerprint = $4, indexed_at = $5
		WHERE id = $1`,
		id, state.Indexed, state.DocumentID, state.Fingerprint, state.IndexedAt)
	if err != nil {
		return fmt.Errorf("update candidate index state %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Posting(ctx context.Context, id string) (model.JobPosting, error) {
	var jp model.JobPosting
	var indexedAt *time.Time
	err := p.pool.QueryRow(ctx, `
		SELECT id, title, description, required_skills, min_experience_years,
		       salary_min, salary_max, location, remote, status,
		       indexed, document_id, fingerprint, indexed_at
		FROM postings WHERE id = $1`, id).Scan(
		&jp.ID, &jp.Title, &jp.Description, &jp.RequiredSkills, &jp.MinExperienceYears,
		&jp.Salary.Min, &jp.Salary.Max, &jp.Location, &jp.Remote, &jp.Status,
		&jp.IndexState.Indexed, &jp.IndexState.DocumentID,
		&jp.IndexState.Fingerprint, &indexedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobPosting{}, ErrNotFound
	}
	if err != nil {
		return model.JobPosting{}, fmt.Errorf("select posting %s: %w", id, err)
	}
	if indexedAt != nil {
		jp.IndexState.IndexedAt = *indexedAt
	}
	return jp, nil
}

func (p *Postgres) PostingIDs(ctx context.Context) ([]string, error) {
	return p.ids(ctx, `SELECT id FROM postings ORDER BY id`)
}

func (p *Postgres) SetPostingIndexState(ctx context.Context, id string, state model.IndexState) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE postings
		SET indexed = $2, document_id = $3, fingerprint = $4, indexed_at = $5
		WHERE id = $1`,
		id, state.Indexed, state.DocumentID, state.Fingerprint, state.IndexedAt)
	if err != nil {
		return fmt.Errorf("update posting index state %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ids(ctx context.Context, query string) ([]string, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
