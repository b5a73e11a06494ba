package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	HealthHandler  *HealthHandler
	OTPHandler     *OTPHandler
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	QuizHandler    *QuizHandler
	JobHandler     *JobHandler
	ReportHandler  *ReportHandler
}
