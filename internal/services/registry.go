package services

import (
	"jobnest_backend/internal/email"
	"jobnest_backend/internal/report"
	"jobnest_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	OTPService     OTPService
	ProfileService ProfileService
	QuizService    QuizService
	JobService     JobService

	EmailProvider email.Provider
	Reports       report.Generator
	Storage       storage.Storage
}
