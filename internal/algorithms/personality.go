package algorithms

import (
	"errors"
	"fmt"
	"sort"

	"jobnest_backend/internal/models"
)

const (
	MinScore = 1
	MaxScore = 5

	// TopCategories is how many categories are kept in an assessment.
	TopCategories = 3
)

var (
	ErrEmptyResponses    = errors.New("no responses submitted")
	ErrScoreOutOfRange   = errors.New("score must be between 1 and 5")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrCategoryMismatch  = errors.New("category does not match question")
	ErrDuplicateResponse = errors.New("question answered more than once")
)

// CategoryTags maps every personality category to its affinity tags.
var CategoryTags = map[models.Category][]string{
	models.CategoryOpenness:          {"creative", "innovative", "curious"},
	models.CategoryConscientiousness: {"organized", "reliable", "detail-oriented"},
	models.CategoryExtraversion:      {"outgoing", "communicative", "team-player"},
	models.CategoryAgreeableness:     {"cooperative", "empathetic", "supportive"},
	models.CategoryNeuroticism:       {"sensitive", "cautious", "self-aware"},
}

// ResponseError describes why a single response was rejected.
type ResponseError struct {
	QuestionID string
	Err        error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response %q: %v", e.QuestionID, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Assessment is the outcome of scoring one quiz submission.
type Assessment struct {
	// Ranked holds every answered category, highest score first.
	Ranked []models.CategoryScore
	// Top is the first TopCategories entries of Ranked.
	Top []models.CategoryScore
	// OverAllTags concatenates the tags of Top; duplicates are kept.
	OverAllTags []string
	// Responses are the validated responses with categories filled in.
	Responses []models.QuizResponse
}

type categoryTotal struct {
	score float64
	total float64
	tags  []string
}

// ScoreResponses joins responses to questions by id, applies reverse scoring
// and converts every answered category to a percentage.
func ScoreResponses(questions []models.Question, responses []models.QuizResponse) (*Assessment, error) {
	if len(responses) == 0 {
		return nil, ErrEmptyResponses
	}

	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	totals := make(map[models.Category]*categoryTotal, len(models.Categories))
	normalized := make([]models.QuizResponse, 0, len(responses))
	answered := make(map[string]bool, len(responses))

	for _, r := range responses {
		q, ok := byID[r.QuestionID]
		if !ok {
			return nil, &ResponseError{QuestionID: r.QuestionID, Err: ErrUnknownQuestion}
		}
		if answered[r.QuestionID] {
			return nil, &ResponseError{QuestionID: r.QuestionID, Err: ErrDuplicateResponse}
		}
		if r.Score < MinScore || r.Score > MaxScore {
			return nil, &ResponseError{QuestionID: r.QuestionID, Err: ErrScoreOutOfRange}
		}
		if r.Category == "" {
			r.Category = q.Category
		} else if r.Category != q.Category {
			return nil, &ResponseError{QuestionID: r.QuestionID, Err: ErrCategoryMismatch}
		}
		answered[r.QuestionID] = true
		normalized = append(normalized, r)

		t, ok := totals[q.Category]
		if !ok {
			t = &categoryTotal{tags: CategoryTags[q.Category]}
			totals[q.Category] = t
		}
		t.score += float64(EffectiveScore(q, r.Score))
		t.total += MaxScore
	}

	ranked := make([]models.CategoryScore, 0, len(totals))
	for _, category := range models.Categories {
		t, ok := totals[category]
		if !ok || len(t.tags) == 0 {
			continue
		}
		ranked = append(ranked, models.CategoryScore{
			CategoryName: category,
			Score:        t.score / t.total * 100,
			Tags:         append([]string(nil), t.tags...),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	top := ranked[:min(TopCategories, len(ranked))]

	overAllTags := []string{}
	for _, c := range top {
		overAllTags = append(overAllTags, c.Tags...)
	}

	return &Assessment{
		Ranked:      ranked,
		Top:         append([]models.CategoryScore(nil), top...),
		OverAllTags: overAllTags,
		Responses:   normalized,
	}, nil
}

// EffectiveScore applies Likert reverse scoring (6 - score) to reversed items.
func EffectiveScore(q models.Question, score int) int {
	if q.IsReversed {
		return MaxScore + 1 - score
	}
	return score
}
