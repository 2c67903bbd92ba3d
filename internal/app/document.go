package app

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/callahq/matchengine/internal/domain/model"
)

// errPostingClosed marks a retrieval hit whose posting is no longer open.
// Such hits are stale index entries and are dropped from results.
var errPostingClosed = errors.New("posting not open")

// candidateDocText builds the semantic document for a candidate. The résumé
// carries the signal; skills and location are appended so they influence the
// embedding even when the résumé does not mention them verbatim.
func candidateDocText(c model.CandidateProfile) string {
	resume := strings.TrimSpace(c.Resume)
	if resume == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(resume)
	if skills := c.SkillNames(); len(skills) > 0 {
		b.WriteString("\nSkills: ")
		b.WriteString(strings.Join(skills, ", "))
	}
	if loc := strings.TrimSpace(c.Mobility); loc != "" {
		b.WriteString("\nLocation: ")
		b.WriteString(loc)
	}
	return b.String()
}

// candidateMeta builds the metadata stored alongside a candidate document.
func candidateMeta(c model.CandidateProfile) map[string]string {
	meta := map[string]string{
		"experienceYears": strconv.Itoa(c.ExperienceYears(time.Now())),
	}
	if c.Mobility != "" {
		meta["mobility"] = c.Mobility
	}
	return meta
}

// postingDocText builds the semantic document for a posting. A posting with
// no description has nothing to index regardless of its title.
func postingDocText(p model.JobPosting) string {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return ""
	}

	var b strings.Builder
	if title := strings.TrimSpace(p.Title); title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	b.WriteString(desc)
	if skills := strings.TrimSpace(p.RequiredSkills); skills != "" {
		b.WriteString("\nRequired skills: ")
		b.WriteString(skills)
	}
	if loc := strings.TrimSpace(p.Location); loc != "" {
		b.WriteString("\nLocation: ")
		b.WriteString(loc)
	}
	return b.String()
}

// postingMeta builds the metadata stored alongside a posting document.
func postingMeta(p model.JobPosting) map[string]string {
	meta := map[string]string{
		"status": string(p.Status),
	}
	if p.Title != "" {
		meta["title"] = p.Title
	}
	if p.Location != "" {
		meta["location"] = p.Location
	}
	return meta
}
