package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

const otpSubject = "Your JobNest verification code"

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	cfg := config.withDefaults()
	config = &cfg
	return &SMTPProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}
}

func (p *SMTPProvider) SendOTP(ctx context.Context, to, code, name string) (*SendResult, error) {
	if p.renderer == nil {
		return nil, fmt.Errorf("%w: template renderer is not configured", ErrDelivery)
	}

	htmlBody, err := p.renderer.Render(TemplateOTP, TemplateData{
		"Name":    name,
		"Code":    code,
		"Minutes": p.config.codeMinutes(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	return p.send(ctx, &Email{
		To:       []string{to},
		Subject:  otpSubject,
		HTMLBody: htmlBody,
		Body:     fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, p.config.codeMinutes()),
	})
}

// send dials the server in a goroutine so the caller's deadline is honoured;
// gomail itself has no context support.
func (p *SMTPProvider) send(ctx context.Context, email *Email) (*SendResult, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), p.messageDomain())
	msg := p.buildMessage(email, messageID)

	done := make(chan error, 1)
	go func() {
		done <- p.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
		}
		return &SendResult{MessageID: messageID}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrDelivery, ctx.Err())
	}
}

func (p *SMTPProvider) buildMessage(email *Email, messageID string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	m.SetHeader("Message-ID", messageID)
	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
		if email.HTMLBody != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		}
	} else {
		m.SetBody("text/html", email.HTMLBody)
	}
	return m
}

func (p *SMTPProvider) messageDomain() string {
	if at := strings.LastIndex(p.config.FromEmail, "@"); at >= 0 {
		return p.config.FromEmail[at+1:]
	}
	return "jobnest.local"
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (p *SMTPProvider) Close() error {
	return nil
}
