package demo

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/pkg/logger"
)

// Synthetic corpus building blocks. Each profile archetype pairs a résumé
// template with the skills a matching posting would ask for.
var archetypes = []struct {
	role     string
	resume   string
	skills   []string
	required string
}{
	{
		role:     "backend engineer",
		resume:   "Backend engineer building distributed services and REST APIs with Go and PostgreSQL. Experience with message queues, caching layers and observability tooling.",
		skills:   []string{"Go", "PostgreSQL", "Redis", "Docker"},
		required: "Go, PostgreSQL, Docker",
	},
	{
		role:     "data engineer",
		resume:   "Data engineer designing batch and streaming pipelines. Strong SQL, warehouse modelling and orchestration background with Python and Airflow.",
		skills:   []string{"Python", "SQL", "Airflow", "Spark"},
		required: "Python, SQL, Spark",
	},
	{
		role:     "frontend developer",
		resume:   "Frontend developer shipping accessible single page applications. Deep TypeScript and React experience, comfortable with design systems and testing.",
		skills:   []string{"TypeScript", "React", "CSS"},
		required: "TypeScript, React, CSS",
	},
	{
		role:     "site reliability engineer",
		resume:   "Site reliability engineer running Kubernetes platforms in production. Automation first mindset, fluent in Terraform, Prometheus and incident response.",
		skills:   []string{"Kubernetes", "Terraform", "Prometheus", "Go"},
		required: "Kubernetes, Terraform, Prometheus",
	},
	{
		role:     "mobile developer",
		resume:   "Mobile developer delivering native Android applications. Kotlin, Jetpack Compose and a track record of performance tuning on constrained devices.",
		skills:   []string{"Kotlin", "Android", "Java"},
		required: "Kotlin, Android",
	},
}

var locations = []string{"Berlin", "Munich", "Hamburg", "remote", "nationwide"}

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateCorpus creates cfg.Candidates candidate profiles and cfg.Postings
// job postings drawn from the archetype pool.
func generateCorpus(ctx context.Context, cfg *Config) ([]model.CandidateProfile, []model.JobPosting) {
	log := logger.Get().Named("demo")
	log.Info(ctx, "generating corpus",
		logger.Int("candidates", cfg.Candidates),
		logger.Int("postings", cfg.Postings))

	now := time.Now()
	candidates := make([]model.CandidateProfile, cfg.Candidates)
	for i := range candidates {
		a := archetypes[i%len(archetypes)]
		years := 1 + randomInt(10)
		start := now.AddDate(-years, 0, 0)

		skills := make([]model.Skill, len(a.skills))
		for j, name := range a.skills {
			skills[j] = model.Skill{Name: name, Years: years}
		}

		candidates[i] = model.CandidateProfile{
			ID:          uuid.New().String(),
			Resume:      a.resume,
			Skills:      skills,
			Experiences: []model.Experience{{Title: a.role, Start: start, Current: true}},
			DesiredSalary: model.SalaryRange{
				Min: 45_000 + randomInt(20)*1000,
				Max: 75_000 + randomInt(30)*1000,
			},
			Mobility:     locations[randomInt(len(locations))],
			AvailableNow: randomInt(2) == 0,
		}
	}

	postings := make([]model.JobPosting, cfg.Postings)
	for i := range postings {
		a := archetypes[i%len(archetypes)]
		postings[i] = model.JobPosting{
			ID:                 uuid.New().String(),
			Title:              "Senior " + a.role,
			Description:        "We are hiring a " + a.role + " to join our product team. " + a.resume,
			RequiredSkills:     a.required,
			MinExperienceYears: 2 + randomInt(4),
			Salary: model.SalaryRange{
				Min: 55_000 + randomInt(15)*1000,
				Max: 90_000 + randomInt(20)*1000,
			},
			Location: locations[randomInt(len(locations))],
			Status:   model.StatusPublished,
		}
	}

	return candidates, postings
}
