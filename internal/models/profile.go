package models

import (
	"gorm.io/datatypes"
)

// JobSeekerProfile is owned by a single job seeker. Tags are rewritten on
// every quiz submission.
type JobSeekerProfile struct {
	BaseModel
	UserID        string                      `gorm:"uniqueIndex;not null" json:"userId"`
	Name          string                      `gorm:"not null" json:"name"`
	Email         string                      `gorm:"uniqueIndex;not null" json:"email"`
	Skills        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	JobPreference JobPreference               `json:"jobPreference"`
	Tags          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	Test          bool                        `gorm:"default:false" json:"test"`
	ReportFile    *string                     `json:"reportFile,omitempty"`
}

func (JobSeekerProfile) TableName() string {
	return "job_seekers"
}

type EmployerProfile struct {
	BaseModel
	UserID      string                      `gorm:"uniqueIndex;not null" json:"userId"`
	Name        string                      `gorm:"not null" json:"name"`
	Email       string                      `gorm:"uniqueIndex;not null" json:"email"`
	CompanyName string                      `json:"companyName"`
	Industry    string                      `json:"industry"`
	Skills      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
}

func (EmployerProfile) TableName() string {
	return "employers"
}

// DisplayName prefers the company name over the contact name.
func (e *EmployerProfile) DisplayName() string {
	if e.CompanyName != "" {
		return e.CompanyName
	}
	return e.Name
}
