// Package scoring computes the rule-based compatibility score between a
// candidate and a job posting. The scorer is pure: given the same inputs it
// always produces the same output, with no I/O and no randomness, so it can
// be tested in isolation from retrieval.
package scoring

import (
	"time"

	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/internal/domain/normalize"
)

// Default point values. Any résumé beats no résumé, hence the base points
// awarded to every pair regardless of overlap.
const (
	defaultBasePoints         = 20
	defaultSkillPoints        = 15
	defaultExperiencePoints   = 12
	defaultLocationPoints     = 10
	defaultSalaryPoints       = 10
	defaultAvailabilityPoints = 8
	maxTotal                  = 100
)

// nationwideSignals mark mobility text that matches any posting location.
var nationwideSignals = []string{"nationwide", "anywhere", "remote", "no preference", "flexible"}

// FeatureScore is the explainable sub-score bundle for one candidate/posting pair.
type FeatureScore struct {
	Base          int
	Skills        int
	Experience    int
	Location      int
	Salary        int
	Availability  int
	Total         int
	MatchedSkills []string
	MissingSkills []string
}

// Option applies a configuration option to the FeatureScorer.
type Option func(*FeatureScorer)

// WithPoints overrides the per-rule point values. Non-positive values keep
// the defaults.
func WithPoints(base, skill, experience, location, salary, availability int) Option {
	return func(s *FeatureScorer) {
		set := func(dst *int, v int) {
			if v > 0 {
				*dst = v
			}
		}
		set(&s.basePoints, base)
		set(&s.skillPoints, skill)
		set(&s.experiencePoints, experience)
		set(&s.locationPoints, location)
		set(&s.salaryPoints, salary)
		set(&s.availabilityPoints, availability)
	}
}

// WithClock sets the time source used to close open-ended experiences.
func WithClock(now func() time.Time) Option {
	return func(s *FeatureScorer) {
		if now != nil {
			s.now = now
		}
	}
}

// FeatureScorer evaluates candidate/posting pairs against the fixed rule set.
type FeatureScorer struct {
	basePoints         int
	skillPoints        int
	experiencePoints   int
	locationPoints     int
	salaryPoints       int
	availabilityPoints int
	now                func() time.Time
}

// New creates a FeatureScorer with default point values.
func New(opts ...Option) *FeatureScorer {
	s := &FeatureScorer{
		basePoints:         defaultBasePoints,
		skillPoints:        defaultSkillPoints,
		experiencePoints:   defaultExperiencePoints,
		locationPoints:     defaultLocationPoints,
		salaryPoints:       defaultSalaryPoints,
		availabilityPoints: defaultAvailabilityPoints,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the feature score for one pair. Missing optional attributes
// (no salary band, no mobility text, no requirement) simply withhold the
// corresponding bonus; they never produce an error.
func (s *FeatureScorer) Score(candidate model.CandidateProfile, posting model.JobPosting) FeatureScore {
	fs := FeatureScore{Base: s.basePoints}

	fs.Skills, fs.MatchedSkills, fs.MissingSkills = s.scoreSkills(candidate, posting)
	fs.Experience = s.scoreExperience(candidate, posting)
	fs.Location = s.scoreLocation(candidate, posting)
	fs.Salary = s.scoreSalary(candidate, posting)
	if candidate.AvailableNow {
		fs.Availability = s.availabilityPoints
	}

	total := fs.Base + fs.Skills + fs.Experience + fs.Location + fs.Salary + fs.Availability
	if total > maxTotal {
		total = maxTotal
	}
	if total < 0 {
		total = 0
	}
	fs.Total = total
	return fs
}

// scoreSkills awards skillPoints per required-skill token found in the
// candidate's skill set. Matching is case-insensitive and trimmed on both
// sides. The per-token award is uncapped here; the overall ceiling applies.
func (s *FeatureScorer) scoreSkills(candidate model.CandidateProfile, posting model.JobPosting) (int, []string, []string) {
	required := normalize.SplitList(posting.RequiredSkills)
	if len(required) == 0 {
		return 0, nil, nil
	}
	have := normalize.TokenSet(candidate.SkillNames())

	points := 0
	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, req := range required {
		if have[req] {
			points += s.skillPoints
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return points, matched, missing
}

func (s *FeatureScorer) scoreExperience(candidate model.CandidateProfile, posting model.JobPosting) int {
	if posting.MinExperienceYears <= 0 {
		return 0
	}
	if candidate.ExperienceYears(s.now()) >= posting.MinExperienceYears {
		return s.experiencePoints
	}
	return 0
}

func (s *FeatureScorer) scoreLocation(candidate model.CandidateProfile, posting model.JobPosting) int {
	mobility := normalize.Token(candidate.Mobility)
	if mobility == "" {
		return 0
	}
	for _, signal := range nationwideSignals {
		if normalize.ContainsFold(mobility, signal) {
			return s.locationPoints
		}
	}
	if normalize.ContainsFold(mobility, posting.Location) {
		return s.locationPoints
	}
	return 0
}

func (s *FeatureScorer) scoreSalary(candidate model.CandidateProfile, posting model.JobPosting) int {
	if posting.Salary.Min <= 0 || candidate.DesiredSalary.IsZero() {
		return 0
	}
	if candidate.DesiredSalary.Contains(posting.Salary.Min) {
		return s.salaryPoints
	}
	return 0
}
