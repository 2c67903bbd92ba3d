// Package matching fuses vector similarity and feature scoring into a single
// bounded match score with a recommendation tier and justification text.
package matching

import (
	"fmt"

	"github.com/callahq/matchengine/internal/domain/scoring"
)

// Tier classifies a match score into a recommendation bucket.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierPartial   Tier = "partial"
	TierWeak      Tier = "weak"
)

// Tier thresholds, inclusive on the lower bound.
const (
	excellentFloor = 80
	goodFloor      = 60
	partialFloor   = 40
)

// Default blend weights. The similarity contribution is treated as a
// percentage (cosine similarity x 100) and averaged with the feature total.
// The weights are an explicit policy, configurable per deployment.
const (
	defaultVectorWeight  = 0.5
	defaultFeatureWeight = 0.5
)

// Result is the aggregated outcome for one candidate/posting pair.
// It is a computed projection, recreated per query and never persisted.
type Result struct {
	CandidateID   string
	PostingID     string
	Similarity    float64
	Features      scoring.FeatureScore
	Score         float64
	Tier          Tier
	Recommended   bool
	MatchedSkills []string
	MissingSkills []string
	Justification string
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights sets the blend weights for the similarity and feature
// components. Both must be non-negative and sum to a positive value.
func WithWeights(vector, feature float64) Option {
	return func(a *Aggregator) {
		if vector >= 0 && feature >= 0 && vector+feature > 0 {
			a.vectorWeight = vector
			a.featureWeight = feature
		}
	}
}

// Aggregator combines the two score components under a weighted-average
// blend policy.
type Aggregator struct {
	vectorWeight  float64
	featureWeight float64
}

// New creates an Aggregator with the default blend weights.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		vectorWeight:  defaultVectorWeight,
		featureWeight: defaultFeatureWeight,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate fuses a cosine similarity and a feature score into a Result.
// Similarity must be within [-1, 1]; anything else is a programming error
// on the caller's side and is rejected with ErrInvalidScoreInput.
func (a *Aggregator) Aggregate(candidateID, postingID string, similarity float64, features scoring.FeatureScore) (Result, error) {
	if similarity < -1 || similarity > 1 || similarity != similarity {
		return Result{}, fmt.Errorf("%w: similarity %v outside [-1, 1]", ErrInvalidScoreInput, similarity)
	}

	vectorScore := similarity * 100
	if vectorScore < 0 {
		vectorScore = 0
	}
	score := (vectorScore*a.vectorWeight + float64(features.Total)*a.featureWeight) /
		(a.vectorWeight + a.featureWeight)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	tier := TierFor(score)
	return Result{
		CandidateID:   candidateID,
		PostingID:     postingID,
		Similarity:    similarity,
		Features:      features,
		Score:         score,
		Tier:          tier,
		Recommended:   tier == TierExcellent || tier == TierGood,
		MatchedSkills: features.MatchedSkills,
		MissingSkills: features.MissingSkills,
		Justification: justification(tier, features),
	}, nil
}

// TierFor maps a match score to its recommendation tier.
func TierFor(score float64) Tier {
	switch {
	case score >= excellentFloor:
		return TierExcellent
	case score >= goodFloor:
		return TierGood
	case score >= partialFloor:
		return TierPartial
	default:
		return TierWeak
	}
}

// justification renders the one-line human-readable summary.
func justification(tier Tier, features scoring.FeatureScore) string {
	label := map[Tier]string{
		TierExcellent: "excellent match",
		TierGood:      "good match",
		TierPartial:   "partial match",
		TierWeak:      "weak match",
	}[tier]
	return fmt.Sprintf("%s: %d/%d required skills covered, feature score %d/100",
		label, len(features.MatchedSkills), len(features.MatchedSkills)+len(features.MissingSkills), features.Total)
}
