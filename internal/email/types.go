package email

// Email представляет структуру email сообщения
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// SendResult is returned for every accepted message.
type SendResult struct {
	MessageID string `json:"messageId"`
}
