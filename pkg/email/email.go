package email

import (
	"bytes"
	"fmt"
	"html/template"
	"karya-backend/config"
	"net/smtp"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// notificationEmailTemplate wraps a plain-text body into the standard
// Karya email layout.
const notificationEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2a9d8f; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; white-space: pre-line; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Subject}}</h1>
        </div>
        <div class="content">{{.Body}}</div>
        <div class="footer">
            <p>Best regards,<br>The Karya Team</p>
        </div>
    </div>
</body>
</html>`

type emailData struct {
	Subject string
	Body    string
}

// Send delivers one email. The body is plain text; it is wrapped in the
// notification template before sending.
func (s *EmailService) Send(to, subject, body string) error {
	tmpl, err := template.New("notification").Parse(notificationEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, emailData{Subject: subject, Body: body}); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		rendered.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
