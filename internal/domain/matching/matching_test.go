package matching_test

import (
	"errors"
	"math"
	"testing"

	"github.com/callahq/matchengine/internal/domain/matching"
	"github.com/callahq/matchengine/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregator_Aggregate(t *testing.T) {
	Convey("Given an aggregator with default weights", t, func() {
		agg := matching.New()

		Convey("When similarity and feature score are both mid-range", func() {
			features := scoring.FeatureScore{Total: 50, MatchedSkills: []string{"java", "sql"}, MissingSkills: []string{"spring"}}
			result, err := agg.Aggregate("cand-1", "post-1", 0.6, features)

			So(err, ShouldBeNil)

			Convey("Then the score is the weighted average of both components", func() {
				// (0.6*100*0.5 + 50*0.5) / 1.0 = 55
				So(result.Score, ShouldAlmostEqual, 55, 0.0001)
				So(result.Tier, ShouldEqual, matching.TierPartial)
				So(result.Recommended, ShouldBeFalse)
			})

			Convey("Then identifiers and skills carry through", func() {
				So(result.CandidateID, ShouldEqual, "cand-1")
				So(result.PostingID, ShouldEqual, "post-1")
				So(result.Similarity, ShouldAlmostEqual, 0.6, 0.0001)
				So(result.MatchedSkills, ShouldResemble, []string{"java", "sql"})
				So(result.MissingSkills, ShouldResemble, []string{"spring"})
			})

			Convey("Then the justification names skill coverage and feature score", func() {
				So(result.Justification, ShouldEqual, "partial match: 2/3 required skills covered, feature score 50/100")
			})
		})

		Convey("When similarity is negative", func() {
			result, err := agg.Aggregate("c", "p", -0.4, scoring.FeatureScore{Total: 60})

			So(err, ShouldBeNil)

			Convey("Then the vector component floors at zero instead of dragging the score negative", func() {
				So(result.Score, ShouldAlmostEqual, 30, 0.0001)
			})
		})

		Convey("When similarity is outside the valid range", func() {
			for _, sim := range []float64{1.5, -1.01, math.NaN()} {
				_, err := agg.Aggregate("c", "p", sim, scoring.FeatureScore{})
				So(err, ShouldNotBeNil)
				So(errors.Is(err, matching.ErrInvalidScoreInput), ShouldBeTrue)
			}
		})

		Convey("When similarity sits exactly on the boundaries", func() {
			for _, sim := range []float64{-1, 1} {
				_, err := agg.Aggregate("c", "p", sim, scoring.FeatureScore{})
				So(err, ShouldBeNil)
			}
		})
	})

	Convey("Given an aggregator with custom weights", t, func() {
		agg := matching.New(matching.WithWeights(0.8, 0.2))

		Convey("When similarity dominates the blend", func() {
			result, err := agg.Aggregate("c", "p", 1.0, scoring.FeatureScore{Total: 0})

			So(err, ShouldBeNil)
			So(result.Score, ShouldAlmostEqual, 80, 0.0001)
			So(result.Tier, ShouldEqual, matching.TierExcellent)
		})

		Convey("When invalid weights are supplied", func() {
			bad := matching.New(matching.WithWeights(-1, 0))
			result, err := bad.Aggregate("c", "p", 0, scoring.FeatureScore{Total: 100})

			So(err, ShouldBeNil)

			Convey("Then the defaults stay in effect", func() {
				So(result.Score, ShouldAlmostEqual, 50, 0.0001)
			})
		})
	})
}

func TestTierFor(t *testing.T) {
	Convey("Given the tier thresholds", t, func() {
		cases := []struct {
			score float64
			tier  matching.Tier
		}{
			{100, matching.TierExcellent},
			{80, matching.TierExcellent},
			{79.99, matching.TierGood},
			{60, matching.TierGood},
			{59.99, matching.TierPartial},
			{40, matching.TierPartial},
			{39.99, matching.TierWeak},
			{0, matching.TierWeak},
		}

		Convey("Then each score maps to its bucket with inclusive lower bounds", func() {
			for _, c := range cases {
				So(matching.TierFor(c.score), ShouldEqual, c.tier)
			}
		})
	})
}

func TestRecommended(t *testing.T) {
	Convey("Given aggregated results at tier boundaries", t, func() {
		agg := matching.New(matching.WithWeights(0, 1))

		Convey("Then excellent and good tiers are recommended, partial and weak are not", func() {
			for _, c := range []struct {
				total       int
				recommended bool
			}{
				{85, true},
				{60, true},
				{59, false},
				{10, false},
			} {
				result, err := agg.Aggregate("c", "p", 0, scoring.FeatureScore{Total: c.total})
				So(err, ShouldBeNil)
				So(result.Recommended, ShouldEqual, c.recommended)
			}
		})
	})
}
