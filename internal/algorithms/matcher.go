package algorithms

import (
	"math"
	"sort"
	"strings"

	"jobnest_backend/internal/models"
)

const (
	tagWeight        = 50.0
	preferenceWeight = 25.0
	skillWeight      = 25.0

	// Floors used when nothing matched at all.
	floorAssessed   = 10.0
	floorUnassessed = 50.0
)

// JobMatch is a posting annotated with how well it fits one job seeker.
type JobMatch struct {
	Job             models.JobPosting
	Employer        *models.EmployerProfile
	MatchPercentage int
	CommonTags      []string
}

// CalculateMatchScore calculates how well a seeker matches a job (0-100)
// and returns the tags shared with the job's employer.
func CalculateMatchScore(seeker *models.JobSeekerProfile, job *models.JobPosting, employerTags []string) (float64, []string) {
	score := 0.0

	// Tag overlap with the employer (50 points)
	seekerTags := uniqueStrings(seeker.Tags, false)
	empTags := uniqueStrings(employerTags, false)
	commonTags := intersect(seekerTags, empTags)
	if len(seekerTags) > 0 && len(empTags) > 0 && len(commonTags) > 0 {
		score += float64(len(commonTags)) / float64(max(len(seekerTags), len(empTags))) * tagWeight
	}

	// Work arrangement (25 points)
	if seeker.JobPreference != "" && job.JobPreference == seeker.JobPreference {
		score += preferenceWeight
	}

	// Skills overlap, case-insensitive (25 points)
	jobSkills := uniqueStrings(job.Skills, true)
	seekerSkills := uniqueStrings(seeker.Skills, true)
	if len(jobSkills) > 0 && len(seekerSkills) > 0 {
		if common := intersect(jobSkills, seekerSkills); len(common) > 0 {
			score += float64(len(common)) / float64(max(len(jobSkills), len(seekerSkills))) * skillWeight
		}
	}

	return score, commonTags
}

// DisplayScore keeps unmatched jobs visible: a seeker who took the assessment
// and still shares nothing gets the lower floor.
func DisplayScore(score float64, assessed bool) float64 {
	if score > 0 {
		return score
	}
	if assessed {
		return floorAssessed
	}
	return floorUnassessed
}

// RankJobs scores every job for the seeker; no job is filtered out. The result
// is sorted by MatchPercentage, highest first, keeping catalog order for ties.
func RankJobs(seeker *models.JobSeekerProfile, jobs []models.JobPosting, employers map[string]*models.EmployerProfile) []JobMatch {
	matches := make([]JobMatch, 0, len(jobs))

	for i := range jobs {
		job := jobs[i]
		employer := employers[job.EmployerID]

		var employerTags []string
		if employer != nil {
			employerTags = employer.Tags
		}

		score, common := CalculateMatchScore(seeker, &job, employerTags)
		matches = append(matches, JobMatch{
			Job:             job,
			Employer:        employer,
			MatchPercentage: toPercentage(DisplayScore(score, seeker.Test)),
			CommonTags:      common,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})
	return matches
}

func toPercentage(score float64) int {
	return int(math.Round(clamp(score, 0, 100)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// uniqueStrings drops blanks and duplicates, keeping first-seen order.
func uniqueStrings(values []string, fold bool) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if fold {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// intersect returns the elements of a that are in b, in a's order.
func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := []string{}
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
