package email

import (
	"fmt"
	"log/slog"

	"elitesite-backend/config"
)

// NewTransport selects the transport named by MAIL_TRANSPORT.
// It returns a nil Transport (and no error) when the selected transport lacks credentials.
func NewTransport(cfg *config.Config, log *slog.Logger) (Transport, error) {
	switch cfg.MailTransport {
	case config.TransportSMTP:
		t := NewSMTPTransport(cfg)
		if !t.IsConfigured() {
			return nil, nil
		}
		return t, nil
	case config.TransportMailgun:
		t := NewMailgunTransport(cfg)
		if t == nil {
			return nil, nil
		}
		return t, nil
	case config.TransportLog:
		return NewLogTransport(log), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", cfg.MailTransport)
	}
}
