package algorithms

import (
	"errors"
	"math/rand/v2"

	"jobnest_backend/internal/models"
)

// QuestionsPerCategory is how many questions a quiz draws from each category.
const QuestionsPerCategory = 2

var ErrNoQuestions = errors.New("no questions matched")

// SampleQuestions draws QuestionsPerCategory random questions from every
// category. Categories appear in models.Categories order; order inside a
// category is random. A nil rng uses the global source.
func SampleQuestions(bank []models.Question, rng *rand.Rand) []models.Question {
	buckets := make(map[models.Category][]models.Question, len(models.Categories))
	for _, q := range bank {
		buckets[q.Category] = append(buckets[q.Category], q)
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	sampled := make([]models.Question, 0, len(models.Categories)*QuestionsPerCategory)
	for _, category := range models.Categories {
		bucket := buckets[category]

		// Fisher-Yates
		for i := len(bucket) - 1; i > 0; i-- {
			j := intN(i + 1)
			bucket[i], bucket[j] = bucket[j], bucket[i]
		}

		n := min(QuestionsPerCategory, len(bucket))
		sampled = append(sampled, bucket[:n]...)
	}
	return sampled
}

// SelectQuestions returns the bank entries whose ids are listed, in ids order.
// Unknown ids are skipped; an empty result is ErrNoQuestions.
func SelectQuestions(bank []models.Question, ids []string) ([]models.Question, error) {
	byID := make(map[string]models.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}

	selected := make([]models.Question, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		selected = append(selected, q)
	}

	if len(selected) == 0 {
		return nil, ErrNoQuestions
	}
	return selected, nil
}
