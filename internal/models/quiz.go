package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question is a question bank entry. IDs look like "Q17".
type Question struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"not null" json:"text"`
	Category   Category  `gorm:"index;not null" json:"category"`
	IsReversed bool      `gorm:"default:false" json:"isReversed"`
	CreatedAt  time.Time `gorm:"default:now()" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

type QuizResponse struct {
	QuestionID string   `json:"questionId"`
	Score      int      `json:"score"`
	Category   Category `json:"category"`
}

// QuizSession is unique per user and overwritten on every start/submit.
type QuizSession struct {
	BaseModel
	UserID      string                            `gorm:"uniqueIndex;not null" json:"userId"`
	QuestionIDs datatypes.JSONSlice[string]       `gorm:"type:jsonb" json:"questionIds"`
	Responses   datatypes.JSONSlice[QuizResponse] `gorm:"type:jsonb" json:"responses"`
	SubmittedAt *time.Time                        `json:"submittedAt,omitempty"`
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}

type CategoryScore struct {
	CategoryName Category `json:"categoryName"`
	Score        float64  `json:"score"`
	Tags         []string `json:"tags"`
}

// AssessmentResult holds the top three categories for a user. One row per user.
type AssessmentResult struct {
	BaseModel
	UserID      string                             `gorm:"uniqueIndex;not null" json:"userId"`
	Categories  datatypes.JSONSlice[CategoryScore] `gorm:"type:jsonb" json:"categories"`
	OverAllTags datatypes.JSONSlice[string]        `gorm:"type:jsonb" json:"overAllTags"`
	GeneratedAt time.Time                          `json:"generatedAt"`
}

func (AssessmentResult) TableName() string {
	return "assessment_results"
}
