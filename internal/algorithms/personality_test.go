package algorithms

import (
	"testing"

	"jobnest_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBank has two questions per category; Q2 (Openness) and Q8 (Agreeableness) are reversed.
func testBank() []models.Question {
	return []models.Question{
		{ID: "Q1", Category: models.CategoryOpenness},
		{ID: "Q2", Category: models.CategoryOpenness, IsReversed: true},
		{ID: "Q3", Category: models.CategoryConscientiousness},
		{ID: "Q4", Category: models.CategoryConscientiousness},
		{ID: "Q5", Category: models.CategoryExtraversion},
		{ID: "Q6", Category: models.CategoryExtraversion},
		{ID: "Q7", Category: models.CategoryAgreeableness},
		{ID: "Q8", Category: models.CategoryAgreeableness, IsReversed: true},
		{ID: "Q9", Category: models.CategoryNeuroticism},
		{ID: "Q10", Category: models.CategoryNeuroticism},
	}
}

func answers(scores map[string]int) []models.QuizResponse {
	out := make([]models.QuizResponse, 0, len(scores))
	for _, q := range testBank() {
		if s, ok := scores[q.ID]; ok {
			out = append(out, models.QuizResponse{QuestionID: q.ID, Score: s})
		}
	}
	return out
}

func fullSubmission() []models.QuizResponse {
	return answers(map[string]int{
		"Q1": 5, "Q2": 1, // Openness: 5 + 5 = 100%
		"Q3": 4, "Q4": 4, // Conscientiousness: 80%
		"Q5": 2, "Q6": 3, // Extraversion: 50%
		"Q7": 3, "Q8": 2, // Agreeableness: 3 + 4 = 70%
		"Q9": 1, "Q10": 1, // Neuroticism: 20%
	})
}

func TestScoreResponses_CoversAllCategoriesThenKeepsTopThree(t *testing.T) {
	a, err := ScoreResponses(testBank(), fullSubmission())
	require.NoError(t, err)

	require.Len(t, a.Ranked, len(models.Categories))
	require.Len(t, a.Top, TopCategories)
	for _, c := range a.Top {
		assert.NotEmpty(t, c.Tags)
	}

	names := []models.Category{a.Top[0].CategoryName, a.Top[1].CategoryName, a.Top[2].CategoryName}
	assert.Equal(t, []models.Category{
		models.CategoryOpenness,
		models.CategoryConscientiousness,
		models.CategoryAgreeableness,
	}, names)

	assert.InDelta(t, 100.0, a.Top[0].Score, 1e-9)
	assert.InDelta(t, 80.0, a.Top[1].Score, 1e-9)
	assert.InDelta(t, 70.0, a.Top[2].Score, 1e-9)
}

func TestScoreResponses_ReverseScoring(t *testing.T) {
	a, err := ScoreResponses(testBank(), answers(map[string]int{"Q1": 5, "Q2": 5}))
	require.NoError(t, err)

	// 5 + (6-5) out of 10
	require.Len(t, a.Top, 1)
	assert.InDelta(t, 60.0, a.Top[0].Score, 1e-9)

	assert.Equal(t, 1, EffectiveScore(models.Question{IsReversed: true}, 5))
	assert.Equal(t, 5, EffectiveScore(models.Question{IsReversed: true}, 1))
	assert.Equal(t, 4, EffectiveScore(models.Question{}, 4))
}

func TestScoreResponses_PercentageBounds(t *testing.T) {
	for _, raw := range []int{1, 2, 3, 4, 5} {
		scores := map[string]int{}
		for _, q := range testBank() {
			scores[q.ID] = raw
		}
		a, err := ScoreResponses(testBank(), answers(scores))
		require.NoError(t, err)
		for _, c := range a.Ranked {
			assert.GreaterOrEqual(t, c.Score, 0.0)
			assert.LessOrEqual(t, c.Score, 100.0)
		}
	}

	a, err := ScoreResponses(testBank(), answers(map[string]int{"Q3": 5, "Q4": 5}))
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.Top[0].Score)
}

func TestScoreResponses_TopIsNeverAscending(t *testing.T) {
	a, err := ScoreResponses(testBank(), answers(map[string]int{
		"Q1": 1, "Q2": 5, "Q3": 2, "Q4": 2, "Q5": 5, "Q6": 5, "Q7": 3, "Q8": 3, "Q9": 4, "Q10": 4,
	}))
	require.NoError(t, err)

	for i := 1; i < len(a.Ranked); i++ {
		assert.GreaterOrEqual(t, a.Ranked[i-1].Score, a.Ranked[i].Score)
	}
	assert.Equal(t, models.CategoryExtraversion, a.Top[0].CategoryName)
}

func TestScoreResponses_OrderOfResponsesDoesNotMatter(t *testing.T) {
	forward := fullSubmission()
	backward := make([]models.QuizResponse, len(forward))
	for i, r := range forward {
		backward[len(forward)-1-i] = r
	}

	a1, err := ScoreResponses(testBank(), forward)
	require.NoError(t, err)
	a2, err := ScoreResponses(testBank(), backward)
	require.NoError(t, err)

	assert.Equal(t, a1.Top, a2.Top)
	assert.Equal(t, a1.OverAllTags, a2.OverAllTags)
}

func TestScoreResponses_UnansweredCategoriesAreNotEligible(t *testing.T) {
	a, err := ScoreResponses(testBank(), answers(map[string]int{"Q1": 1, "Q9": 1}))
	require.NoError(t, err)

	require.Len(t, a.Top, 2)
	for _, c := range a.Top {
		assert.Contains(t, []models.Category{models.CategoryOpenness, models.CategoryNeuroticism}, c.CategoryName)
	}
}

func TestScoreResponses_OverAllTagsFollowTopOrder(t *testing.T) {
	a, err := ScoreResponses(testBank(), fullSubmission())
	require.NoError(t, err)

	var expected []string
	for _, c := range a.Top {
		expected = append(expected, c.Tags...)
	}
	assert.Equal(t, expected, a.OverAllTags)
	assert.Len(t, a.OverAllTags, 9)
}

func TestScoreResponses_FillsMissingCategory(t *testing.T) {
	a, err := ScoreResponses(testBank(), []models.QuizResponse{{QuestionID: "Q5", Score: 4}})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryExtraversion, a.Responses[0].Category)
}

func TestScoreResponses_Validation(t *testing.T) {
	tests := []struct {
		name      string
		responses []models.QuizResponse
		want      error
	}{
		{"empty", nil, ErrEmptyResponses},
		{"unknown question", []models.QuizResponse{{QuestionID: "Q99", Score: 3}}, ErrUnknownQuestion},
		{"score too low", []models.QuizResponse{{QuestionID: "Q1", Score: 0}}, ErrScoreOutOfRange},
		{"score too high", []models.QuizResponse{{QuestionID: "Q1", Score: 6}}, ErrScoreOutOfRange},
		{"category mismatch", []models.QuizResponse{{QuestionID: "Q1", Score: 3, Category: models.CategoryNeuroticism}}, ErrCategoryMismatch},
		{"duplicate", []models.QuizResponse{{QuestionID: "Q1", Score: 3}, {QuestionID: "Q1", Score: 4}}, ErrDuplicateResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ScoreResponses(testBank(), tc.responses)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
