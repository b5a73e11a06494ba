package algorithms

import (
	"sort"
	"strings"

	"jobnest_backend/internal/models"
)

const (
	idealRoleBonus = 30.0
	keywordBonus   = 10.0
	baseBonus      = 20.0
	maxRelevance   = 100.0
)

// RoleProfile lists the job titles and keywords that suit a category.
type RoleProfile struct {
	IdealRoles []string
	Keywords   []string
}

var DefaultRoleProfiles = map[models.Category]RoleProfile{
	models.CategoryOpenness: {
		IdealRoles: []string{"designer", "researcher", "product manager", "architect", "content strategist"},
		Keywords:   []string{"creative", "innovation", "research", "design", "prototype", "explore"},
	},
	models.CategoryConscientiousness: {
		IdealRoles: []string{"project manager", "accountant", "quality assurance", "analyst", "auditor"},
		Keywords:   []string{"detail", "process", "compliance", "planning", "accuracy", "deadline"},
	},
	models.CategoryExtraversion: {
		IdealRoles: []string{"sales", "marketing", "account manager", "recruiter", "public relations"},
		Keywords:   []string{"client", "presentation", "networking", "communication", "events", "team"},
	},
	models.CategoryAgreeableness: {
		IdealRoles: []string{"customer success", "nurse", "teacher", "hr", "counselor", "support"},
		Keywords:   []string{"support", "care", "collaboration", "mentoring", "community", "help"},
	},
	models.CategoryNeuroticism: {
		IdealRoles: []string{"writer", "editor", "data entry", "archivist", "back office"},
		Keywords:   []string{"independent", "quiet", "structured", "remote", "focused", "routine"},
	},
}

// JobRelevance is a job with its report relevance score in [0,100].
type JobRelevance struct {
	Job   models.JobPosting
	Score float64
}

// Correlator scores jobs against a seeker's top personality categories.
type Correlator struct {
	profiles map[models.Category]RoleProfile
}

// NewCorrelator starts from DefaultRoleProfiles; overrides replace whole categories.
func NewCorrelator(overrides map[models.Category]RoleProfile) *Correlator {
	profiles := make(map[models.Category]RoleProfile, len(DefaultRoleProfiles))
	for k, v := range DefaultRoleProfiles {
		profiles[k] = v
	}
	for k, v := range overrides {
		profiles[k] = v
	}
	return &Correlator{profiles: profiles}
}

// Score computes the relevance of one job. Category i (0-based, best first)
// is weighted (3-i)/3.
func (c *Correlator) Score(top []models.CategoryScore, job *models.JobPosting) float64 {
	title := strings.ToLower(job.JobTitle)
	text := title + " " + strings.ToLower(job.Description)

	score := 0.0
	for i, category := range top {
		if i >= TopCategories {
			break
		}
		weight := float64(TopCategories-i) / TopCategories
		profile := c.profiles[category.CategoryName]

		for _, role := range profile.IdealRoles {
			if role != "" && strings.Contains(title, strings.ToLower(role)) {
				score += idealRoleBonus * weight
			}
		}
		for _, kw := range profile.Keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				score += keywordBonus * weight
			}
		}
		score += category.Score / 100 * baseBonus * weight
	}

	return clamp(score, 0, maxRelevance)
}

// Correlate scores every job and sorts them by relevance, highest first.
func (c *Correlator) Correlate(top []models.CategoryScore, jobs []models.JobPosting) []JobRelevance {
	out := make([]JobRelevance, 0, len(jobs))
	for i := range jobs {
		out = append(out, JobRelevance{Job: jobs[i], Score: c.Score(top, &jobs[i])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
