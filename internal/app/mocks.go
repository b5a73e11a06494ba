package app

import (
	"context"

	"jobnest_backend/internal/email"
	"jobnest_backend/internal/logger"

	"github.com/google/uuid"
)

// MockEmailProvider используется для тестов и локальной разработки.
// Код не отправляется, а пишется в лог.
type MockEmailProvider struct{}

func (m *MockEmailProvider) SendOTP(ctx context.Context, to, code, name string) (*email.SendResult, error) {
	logger.CtxInfo(ctx, "[mock email] verification code", "to", to, "name", name, "code", code)
	return &email.SendResult{MessageID: "mock-" + uuid.NewString()}, nil
}

func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }
