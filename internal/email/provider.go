package email

import (
	"context"
	"errors"
)

// ErrDelivery wraps every failure to hand a message to the mail server.
var ErrDelivery = errors.New("email delivery failed")

// Provider определяет интерфейс для отправки email
type Provider interface {
	// SendOTP delivers a verification code. Failures wrap ErrDelivery.
	SendOTP(ctx context.Context, to, code, name string) (*SendResult, error)

	// Validate проверяет конфигурацию провайдера
	Validate() error

	Close() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
