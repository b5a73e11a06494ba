package repositories

import (
	"errors"

	"jobnest_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrResultNotFound = errors.New("assessment result not found")

type QuestionRepository interface {
	FindAll(db *gorm.DB) ([]models.Question, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Question, error)
}

type QuizRepository interface {
	UpsertSession(db *gorm.DB, session *models.QuizSession) error
	UpsertResult(db *gorm.DB, result *models.AssessmentResult) error
	FindResultByUserID(db *gorm.DB, userID string) (*models.AssessmentResult, error)
}

type QuestionRepositoryImpl struct{}

func NewQuestionRepository() QuestionRepository {
	return &QuestionRepositoryImpl{}
}

func (r *QuestionRepositoryImpl) FindAll(db *gorm.DB) ([]models.Question, error) {
	var questions []models.Question
	err := db.Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Question, error) {
	var questions []models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := db.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

type QuizRepositoryImpl struct{}

func NewQuizRepository() QuizRepository {
	return &QuizRepositoryImpl{}
}

// UpsertSession keeps exactly one session per user; a new start or submit overwrites it.
func (r *QuizRepositoryImpl) UpsertSession(db *gorm.DB, session *models.QuizSession) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"question_ids", "responses", "submitted_at", "updated_at"}),
	}).Create(session).Error
}

// UpsertResult is a single INSERT ... ON CONFLICT (user_id) DO UPDATE, so
// concurrent submissions never produce a second row.
func (r *QuizRepositoryImpl) UpsertResult(db *gorm.DB, result *models.AssessmentResult) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"categories", "over_all_tags", "generated_at", "updated_at"}),
	}).Create(result).Error
}

func (r *QuizRepositoryImpl) FindResultByUserID(db *gorm.DB, userID string) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	if err := db.Where("user_id = ?", userID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &result, nil
}
