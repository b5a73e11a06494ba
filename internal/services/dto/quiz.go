package dto

import (
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/report"
)

type QuizQuestion struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Category models.Category `json:"category"`
}

type StartQuizResponse struct {
	Questions []QuizQuestion `json:"questions"`
	Total     int            `json:"total"`
}

type QuizAnswer struct {
	QuestionID string `json:"questionId" validate:"required"`
	Score      int    `json:"score" validate:"required,min=1,max=5"`
	Category   string `json:"category" validate:"category"`
}

type SubmitQuizRequest struct {
	Responses []QuizAnswer `json:"responses" validate:"required,min=1,dive"`
}

// SubmitQuizResponse is the stored assessment plus the best-effort report.
// Report is null when generation failed.
type SubmitQuizResponse struct {
	Categories         []models.CategoryScore `json:"categories"`
	OverAllTags        []string               `json:"overAllTags"`
	PotentialEmployers []string               `json:"potentialEmployers"`
	Report             *report.Ref            `json:"report"`
}
