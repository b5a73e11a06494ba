package dto

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,max=100"`
	UserType    string `json:"userType" validate:"required,usertype"`
	CompanyName string `json:"companyName" validate:"max=200"`
	Industry    string `json:"industry" validate:"max=100"`
}

type RegisterResponse struct {
	UserID    string `json:"userId"`
	ProfileID string `json:"profileId"`
	UserType  string `json:"userType"`
}

type UpdateJobSeekerRequest struct {
	Name          string   `json:"name" validate:"omitempty,max=100"`
	Skills        []string `json:"skills" validate:"max=50,dive,required,max=50"`
	JobPreference string   `json:"jobPreference" validate:"omitempty,jobpref"`
}

type UpdateEmployerRequest struct {
	CompanyName string   `json:"companyName" validate:"omitempty,max=200"`
	Industry    string   `json:"industry" validate:"omitempty,max=100"`
	Skills      []string `json:"skills" validate:"max=50,dive,required,max=50"`
	Tags        []string `json:"tags" validate:"max=50,dive,required,max=50"`
}
