package email

import (
	"context"
	"log/slog"

	"elitesite-backend/config"
)

// LogTransport logs messages instead of sending them. Development only.
type LogTransport struct {
	log *slog.Logger
}

func NewLogTransport(log *slog.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Name() string { return config.TransportLog }

func (t *LogTransport) Send(ctx context.Context, msg *Message) error {
	t.log.InfoContext(ctx, "contact email (not sent)",
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
