package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	textTemplate "text/template"
	"time"

	"elitesite-backend/config"
	"elitesite-backend/pkg/metrics"
)

// Message is a fully composed outbound email
type Message struct {
	From    string
	To      string
	ReplyTo string // empty when the submitter address did not parse
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a composed message. Implementations must be safe for
// concurrent use; a failure on one Send must not affect another.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// EmailService composes contact emails and hands them to a Transport
type EmailService struct {
	transport Transport
	fromEmail string
	toEmail   string
	timeout   time.Duration
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Message     string
}

// NewEmailService creates the service with the addresses fixed by configuration.
// transport may be nil, in which case IsConfigured reports false.
func NewEmailService(cfg *config.Config, transport Transport) *EmailService {
	return &EmailService{
		transport: transport,
		fromEmail: cfg.SMTPFromEmail,
		toEmail:   cfg.ContactEmailTo,
		timeout:   cfg.MailTimeout(),
	}
}

const contactTextTemplate = `Name: {{.SenderName}}
Email: {{.SenderEmail}}
Message: {{.Message}}`

// contactEmailTemplate is the HTML alternative for contact form emails
const contactEmailTemplate = `<div style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #4a90e2;">New Contact Form Submission</h2>
  <p><strong>Name:</strong> {{.SenderName}}</p>
  <p><strong>Email:</strong> {{.SenderEmail}}</p>
  <p><strong>Message:</strong></p>
  <p style="padding: 15px; background-color: #f5f5f5; border-left: 4px solid #4a90e2; white-space: pre-wrap;">{{.Message}}</p>
</div>`

var (
	htmlTmpl = template.Must(template.New("contact_html").Parse(contactEmailTemplate))
	textTmpl = textTemplate.Must(textTemplate.New("contact_text").Parse(contactTextTemplate))
)

// BuildContactMessage renders the contact email without sending it
func (s *EmailService) BuildContactMessage(data ContactEmailData) (*Message, error) {
	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to execute html template: %w", err)
	}
	if err := textTmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to execute text template: %w", err)
	}

	msg := &Message{
		From:    s.fromEmail,
		To:      s.toEmail,
		Subject: "Contact Form Submission from " + headerSafe(data.SenderName),
		Text:    text.String(),
		HTML:    html.String(),
	}

	// Reply-To is the only header derived from user input, so it must be a single valid address
	if addr, err := mail.ParseAddress(data.SenderEmail); err == nil {
		msg.ReplyTo = addr.Address
	}

	return msg, nil
}

// SendContactEmail sends a contact form email to the configured recipient
func (s *EmailService) SendContactEmail(ctx context.Context, data ContactEmailData) error {
	msg, err := s.BuildContactMessage(data)
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err = s.transport.Send(ctx, msg)
	metrics.ObserveDispatch(s.transport.Name(), err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s transport: %w", s.transport.Name(), err)
	}

	return nil
}

// IsConfigured checks if the service has a transport and both fixed addresses
func (s *EmailService) IsConfigured() bool {
	return s.transport != nil && s.fromEmail != "" && s.toEmail != ""
}

// TransportName reports the active transport, or "none"
func (s *EmailService) TransportName() string {
	if s.transport == nil {
		return "none"
	}
	return s.transport.Name()
}

// headerSafe collapses line breaks so user input cannot add headers
func headerSafe(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
