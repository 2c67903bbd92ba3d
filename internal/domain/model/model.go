// Package model contains the matching-domain entities passed between layers.
package model

import "time"

// OwnerKind discriminates the two document owners in the vector index.
type OwnerKind string

const (
	KindCandidate OwnerKind = "cv"
	KindPosting   OwnerKind = "offer"
)

// DocumentID derives the stable vector-store document id for an owner.
// Reindexing the same owner always targets the same id.
func DocumentID(kind OwnerKind, ownerID string) string {
	return string(kind) + "-" + ownerID
}

// PostingStatus is the lifecycle state of a job posting.
type PostingStatus string

const (
	StatusDraft     PostingStatus = "draft"
	StatusPublished PostingStatus = "published"
	StatusClosed    PostingStatus = "closed"
)

// Skill is a structured candidate skill.
type Skill struct {
	Name  string
	Years int
	Level string
}

// Experience is a single work-history entry.
type Experience struct {
	Title   string
	Start   time.Time
	End     *time.Time
	Current bool
}

// Months returns the duration of the experience in whole months,
// using now for entries still marked current or missing an end date.
func (e Experience) Months(now time.Time) int {
	end := now
	if !e.Current && e.End != nil {
		end = *e.End
	}
	if end.Before(e.Start) {
		return 0
	}
	years := end.Year() - e.Start.Year()
	months := years*12 + int(end.Month()) - int(e.Start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// SalaryRange is a salary band in whole currency units. Zero means unspecified.
type SalaryRange struct {
	Min int
	Max int
}

// IsZero reports whether the range carries no information.
func (r SalaryRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Contains reports whether amount falls inside the band, inclusive on both ends.
func (r SalaryRange) Contains(amount int) bool {
	return amount >= r.Min && amount <= r.Max
}

// IndexState tracks whether an entity's text is reflected in the vector store.
// It must be invalidated whenever the underlying text changes.
type IndexState struct {
	Indexed     bool
	DocumentID  string
	Fingerprint string
	IndexedAt   time.Time
}

// CandidateProfile is the candidate aggregate as seen by the matching engine.
// Owned by the candidate business entity; the engine only reads it and
// writes back the IndexState reference.
type CandidateProfile struct {
	ID            string
	Resume        string
	Skills        []Skill
	Experiences   []Experience
	DesiredSalary SalaryRange
	Mobility      string
	AvailableNow  bool
	IndexState    IndexState
}

// ExperienceYears sums work-history durations and converts to whole years.
func (c CandidateProfile) ExperienceYears(now time.Time) int {
	months := 0
	for _, e := range c.Experiences {
		months += e.Months(now)
	}
	return months / 12
}

// SkillNames returns the candidate's skill names in declaration order.
func (c CandidateProfile) SkillNames() []string {
	names := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		names = append(names, s.Name)
	}
	return names
}

// JobPosting is the posting aggregate as seen by the matching engine.
type JobPosting struct {
	ID                 string
	Title              string
	Description        string
	RequiredSkills     string
	MinExperienceYears int
	Salary             SalaryRange
	Location           string
	Remote             bool
	Status             PostingStatus
	IndexState         IndexState
}

// Open reports whether the posting participates in retrieval for candidates.
func (p JobPosting) Open() bool {
	return p.Status == StatusPublished
}
