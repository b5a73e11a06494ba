package dto

type SendOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	UserType string `json:"userType" validate:"required,usertype"`
	Name     string `json:"name" validate:"max=100"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type SendOTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn"`
}

type VerifyOTPResponse struct {
	Message  string `json:"message"`
	Verified bool   `json:"verified"`
}
