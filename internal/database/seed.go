package database

import (
	"context"
	"fmt"

	"jobnest_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionBank is the default Likert question bank, five items per category.
var QuestionBank = []models.Question{
	{ID: "Q1", Text: "I enjoy trying out new ways of doing things.", Category: models.CategoryOpenness},
	{ID: "Q2", Text: "I am curious about many different topics.", Category: models.CategoryOpenness},
	{ID: "Q3", Text: "I prefer routine over variety.", Category: models.CategoryOpenness, IsReversed: true},
	{ID: "Q4", Text: "I like to think about abstract ideas.", Category: models.CategoryOpenness},
	{ID: "Q5", Text: "Art and creative work rarely interest me.", Category: models.CategoryOpenness, IsReversed: true},

	{ID: "Q6", Text: "I finish tasks before their deadline.", Category: models.CategoryConscientiousness},
	{ID: "Q7", Text: "I keep my work space organised.", Category: models.CategoryConscientiousness},
	{ID: "Q8", Text: "I often leave things unfinished.", Category: models.CategoryConscientiousness, IsReversed: true},
	{ID: "Q9", Text: "I plan my week in advance.", Category: models.CategoryConscientiousness},
	{ID: "Q10", Text: "I tend to overlook details.", Category: models.CategoryConscientiousness, IsReversed: true},

	{ID: "Q11", Text: "I feel energised after meeting new people.", Category: models.CategoryExtraversion},
	{ID: "Q12", Text: "I enjoy presenting in front of a group.", Category: models.CategoryExtraversion},
	{ID: "Q13", Text: "I prefer to work alone rather than in a team.", Category: models.CategoryExtraversion, IsReversed: true},
	{ID: "Q14", Text: "I start conversations easily.", Category: models.CategoryExtraversion},
	{ID: "Q15", Text: "I keep in the background at social events.", Category: models.CategoryExtraversion, IsReversed: true},

	{ID: "Q16", Text: "I try to help colleagues who are struggling.", Category: models.CategoryAgreeableness},
	{ID: "Q17", Text: "I find it easy to see other points of view.", Category: models.CategoryAgreeableness},
	{ID: "Q18", Text: "I get irritated by other people easily.", Category: models.CategoryAgreeableness, IsReversed: true},
	{ID: "Q19", Text: "I value harmony in a team.", Category: models.CategoryAgreeableness},
	{ID: "Q20", Text: "I am more interested in results than in people's feelings.", Category: models.CategoryAgreeableness, IsReversed: true},

	{ID: "Q21", Text: "I often worry about things going wrong.", Category: models.CategoryNeuroticism},
	{ID: "Q22", Text: "My mood changes frequently.", Category: models.CategoryNeuroticism},
	{ID: "Q23", Text: "I stay calm under pressure.", Category: models.CategoryNeuroticism, IsReversed: true},
	{ID: "Q24", Text: "I get stressed by tight deadlines.", Category: models.CategoryNeuroticism},
	{ID: "Q25", Text: "I rarely feel anxious.", Category: models.CategoryNeuroticism, IsReversed: true},
}

// SeedQuestions inserts the default bank, leaving existing rows untouched.
// It returns the number of inserted questions.
func SeedQuestions(ctx context.Context, db *gorm.DB) (int64, error) {
	bank := make([]models.Question, len(QuestionBank))
	copy(bank, QuestionBank)

	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&bank)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to seed question bank: %w", result.Error)
	}
	return result.RowsAffected, nil
}
