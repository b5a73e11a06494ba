package apperrors

import (
	"net/http"
)

// --- OTP ---

var (
	ErrInvalidEmail     = New(CodeValidationFailed, "otp", "Invalid email address", http.StatusBadRequest)
	ErrInvalidUserType  = New(CodeValidationFailed, "otp", "User type must be Jobseeker or Employer", http.StatusBadRequest)
	ErrEmailInUse       = New(CodeConflict, "otp", "An account with this email already exists", http.StatusConflict)
	ErrOTPNotFound      = New(CodeNotFound, "otp", "No verification code was requested for this email", http.StatusNotFound)
	ErrOTPExpired       = New(CodeExpired, "otp", "Verification code has expired", http.StatusGone)
	ErrOTPTooManyTries  = New(CodeRateLimited, "otp", "Too many failed attempts, request a new code", http.StatusTooManyRequests)
	ErrOTPResendCap     = New(CodeRateLimited, "otp", "Resend limit reached, try again later", http.StatusTooManyRequests)
	ErrOTPConcurrent    = New(CodeConflict, "otp", "Verification state changed concurrently, retry", http.StatusConflict)
	ErrEmailNotVerified = New(CodeValidationFailed, "otp", "Email has not been verified", http.StatusBadRequest)
	ErrUserTypeMismatch = New(CodeValidationFailed, "otp", "User type differs from the one the email was verified for", http.StatusBadRequest)
)

// ErrOTPCooldown reports the seconds left before another code may be sent.
func ErrOTPCooldown(retryAfterSeconds int) *AppError {
	return New(CodeRateLimited, "otp", "Please wait before requesting another code", http.StatusTooManyRequests).
		WithDetails(map[string]int{"retryAfter": retryAfterSeconds})
}

// ErrInvalidOTP carries the number of verification attempts left.
func ErrInvalidOTP(remainingAttempts int) *AppError {
	return New(CodeInvalidCode, "otp", "Invalid verification code", http.StatusBadRequest).
		WithDetails(map[string]int{"remainingAttempts": remainingAttempts})
}

// ErrEmailDelivery wraps a failure of the email collaborator.
func ErrEmailDelivery(err error) *AppError {
	return Wrap(err, CodeEmailDeliveryFailed, "otp", "Failed to send verification email", http.StatusInternalServerError)
}

// --- Profiles ---

var (
	ErrProfileNotFound  = New(CodeNotFound, "profile", "Profile not found", http.StatusNotFound)
	ErrProfileExists    = New(CodeConflict, "profile", "Profile already exists", http.StatusConflict)
	ErrNotEmployer      = New(CodeForbidden, "profile", "Only employers can perform this action", http.StatusForbidden)
	ErrInvalidJobPref   = New(CodeValidationFailed, "profile", "Job preference must be Remote, Onsite or Hybrid", http.StatusBadRequest)
	ErrResultNotFound   = New(CodeNotFound, "quiz", "Assessment result not found", http.StatusNotFound)
	ErrQuestionsMissing = New(CodeNotFound, "quiz", "No questions found", http.StatusNotFound)
	ErrEmptyResponses   = New(CodeValidationFailed, "quiz", "At least one response is required", http.StatusBadRequest)
)

// --- Jobs ---

var (
	ErrJobNotFound = New(CodeNotFound, "job", "Job not found", http.StatusNotFound)
	ErrNotJobOwner = New(CodeForbidden, "job", "Only the employer who posted this job can modify it", http.StatusForbidden)
)

// --- Reports ---

var ErrReportNotFound = New(CodeNotFound, "report", "Report not found", http.StatusNotFound)
