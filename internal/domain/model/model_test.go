package model_test

import (
	"testing"
	"time"

	"github.com/callahq/matchengine/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestDocumentID(t *testing.T) {
	Convey("Given an owner kind and id", t, func() {
		Convey("Then the document id is stable and kind-prefixed", func() {
			So(model.DocumentID(model.KindCandidate, "42"), ShouldEqual, "cv-42")
			So(model.DocumentID(model.KindPosting, "42"), ShouldEqual, "offer-42")
			So(model.DocumentID(model.KindCandidate, "42"), ShouldEqual, model.DocumentID(model.KindCandidate, "42"))
		})
	})
}

func TestExperienceMonths(t *testing.T) {
	Convey("Given work-history entries", t, func() {
		Convey("When the entry has explicit start and end", func() {
			end := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
			e := model.Experience{Start: time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC), End: &end}
			So(e.Months(now), ShouldEqual, 29)
		})

		Convey("When the entry is still current", func() {
			e := model.Experience{Start: now.AddDate(-2, 0, 0), Current: true}
			So(e.Months(now), ShouldEqual, 24)
		})

		Convey("When the entry has no end date and is not marked current", func() {
			e := model.Experience{Start: now.AddDate(-1, 0, 0)}
			So(e.Months(now), ShouldEqual, 12)
		})

		Convey("When the end predates the start", func() {
			end := now.AddDate(-3, 0, 0)
			e := model.Experience{Start: now.AddDate(-1, 0, 0), End: &end}
			So(e.Months(now), ShouldEqual, 0)
		})
	})
}

func TestCandidateExperienceYears(t *testing.T) {
	Convey("Given a candidate with several stints", t, func() {
		end := now.AddDate(0, -6, 0)
		c := model.CandidateProfile{
			Experiences: []model.Experience{
				{Start: now.AddDate(-2, 0, 0), Current: true}, // 24 months
				{Start: now.AddDate(-3, 0, 0), End: &end},     // 30 months
			},
		}

		Convey("Then months sum before converting to whole years", func() {
			So(c.ExperienceYears(now), ShouldEqual, 4) // 54 months
		})
	})

	Convey("Given a candidate with no history", t, func() {
		So(model.CandidateProfile{}.ExperienceYears(now), ShouldEqual, 0)
	})
}

func TestSalaryRange(t *testing.T) {
	Convey("Given a salary band", t, func() {
		band := model.SalaryRange{Min: 50_000, Max: 70_000}

		Convey("Then containment is inclusive on both ends", func() {
			So(band.Contains(50_000), ShouldBeTrue)
			So(band.Contains(70_000), ShouldBeTrue)
			So(band.Contains(60_000), ShouldBeTrue)
			So(band.Contains(49_999), ShouldBeFalse)
			So(band.Contains(70_001), ShouldBeFalse)
		})

		Convey("Then a zero band reports no information", func() {
			So(model.SalaryRange{}.IsZero(), ShouldBeTrue)
			So(band.IsZero(), ShouldBeFalse)
		})
	})
}

func TestJobPostingOpen(t *testing.T) {
	Convey("Given postings in every lifecycle state", t, func() {
		So(model.JobPosting{Status: model.StatusPublished}.Open(), ShouldBeTrue)
		So(model.JobPosting{Status: model.StatusDraft}.Open(), ShouldBeFalse)
		So(model.JobPosting{Status: model.StatusClosed}.Open(), ShouldBeFalse)
	})
}

func TestSkillNames(t *testing.T) {
	Convey("Given a candidate with structured skills", t, func() {
		c := model.CandidateProfile{Skills: []model.Skill{{Name: "Go"}, {Name: "SQL"}}}
		So(c.SkillNames(), ShouldResemble, []string{"Go", "SQL"})
	})
}
