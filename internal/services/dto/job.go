package dto

import (
	"time"

	"jobnest_backend/internal/models"
)

type JobRequest struct {
	JobTitle      string     `json:"jobTitle" validate:"required,max=200"`
	Description   string     `json:"description" validate:"max=5000"`
	Salary        float64    `json:"salary" validate:"gte=0"`
	CurrencyType  string     `json:"currencyType" validate:"omitempty,len=3"`
	Skills        []string   `json:"skills" validate:"max=50,dive,required,max=50"`
	JobPreference string     `json:"jobPreference" validate:"required,jobpref"`
	MinExperience int        `json:"minExperience" validate:"gte=0"`
	MaxExperience int        `json:"maxExperience" validate:"gte=0,gtefield=MinExperience"`
	Location      string     `json:"location" validate:"max=200"`
	ExpiryDate    *time.Time `json:"expiryDate"`
}

type MatchedJob struct {
	models.JobPosting
	EmployerName    string   `json:"employerName"`
	MatchPercentage int      `json:"matchPercentage"`
	CommonTags      []string `json:"commonTags"`
}

type MatchedJobsResponse struct {
	Jobs  []MatchedJob `json:"jobs"`
	Total int          `json:"total"`
}
