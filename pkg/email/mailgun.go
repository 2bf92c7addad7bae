package email

import (
	"context"
	"fmt"

	"elitesite-backend/config"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunTransport sends messages via the Mailgun HTTP API
type MailgunTransport struct {
	client *mailgun.MailgunImpl
}

// NewMailgunTransport returns nil if Mailgun is not configured
func NewMailgunTransport(cfg *config.Config) *MailgunTransport {
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		return nil
	}
	return &MailgunTransport{
		client: mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
	}
}

func (t *MailgunTransport) Name() string { return config.TransportMailgun }

// SetAPIBase points the client at a different API host (EU region, tests)
func (t *MailgunTransport) SetAPIBase(url string) {
	t.client.SetAPIBase(url)
}

func (t *MailgunTransport) Send(ctx context.Context, msg *Message) error {
	message := t.client.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if msg.ReplyTo != "" {
		message.AddHeader("Reply-To", msg.ReplyTo)
	}

	if _, _, err := t.client.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}
	return nil
}
