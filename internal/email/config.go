package email

import "time"

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration

	// CodeTTL is quoted in the verification email.
	CodeTTL time.Duration
}

func (c SMTPConfig) withDefaults() SMTPConfig {
	if c.Port == 0 {
		c.Port = 587
	}
	if c.FromName == "" {
		c.FromName = "JobNest"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.CodeTTL == 0 {
		c.CodeTTL = 10 * time.Minute
	}
	return c
}

func (c SMTPConfig) codeMinutes() int {
	return int(c.CodeTTL.Round(time.Minute) / time.Minute)
}
