package models

import (
	"time"

	"gorm.io/datatypes"
)

type Experience struct {
	MinExperience int `json:"minExperience"`
	MaxExperience int `json:"maxExperience"`
}

type JobPosting struct {
	BaseModel
	EmployerID    string                      `gorm:"type:uuid;index;not null" json:"employerId"`
	JobTitle      string                      `gorm:"not null" json:"jobTitle"`
	Description   string                      `json:"description"`
	Salary        float64                     `json:"salary"`
	CurrencyType  string                      `json:"currencyType"`
	Skills        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	JobPreference JobPreference               `json:"jobPreference"`
	Experience    Experience                  `gorm:"embedded;embeddedPrefix:experience_" json:"experience"`
	Location      string                      `json:"location"`
	PostedDate    time.Time                   `gorm:"default:now()" json:"postedDate"`
	ExpiryDate    *time.Time                  `json:"expiryDate,omitempty"`
}

func (JobPosting) TableName() string {
	return "jobs"
}
