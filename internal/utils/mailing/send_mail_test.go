package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMailer(t *testing.T) {
	assert.IsType(t, noopMailer{}, NewMailer(MailConfig{}))
	assert.NoError(t, NewMailer(MailConfig{}).SendMail("cook@example.com", "hi", "body"))

	m := NewMailer(MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "not-a-port"})
	assert.IsType(t, &smtpMailer{}, m)
	assert.ErrorContains(t, m.SendMail("cook@example.com", "hi", "body"), "SMTP_PORT")
}

func TestPasswordChangedBody(t *testing.T) {
	body := PasswordChangedBody("cook", "https://foodgram.example")
	assert.Contains(t, body, "cook")
	assert.Contains(t, body, "https://foodgram.example")
}
