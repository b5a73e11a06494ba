package apperrors

// ErrorCode is the stable machine-readable kind carried by every AppError.
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeRateLimited      ErrorCode = "RATE_LIMITED"
	CodeExpired          ErrorCode = "EXPIRED"
	CodeInvalidCode      ErrorCode = "INVALID_CODE"

	// Auth
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// System
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	CodeEmailDeliveryFailed ErrorCode = "EMAIL_DELIVERY_FAILED"
)
