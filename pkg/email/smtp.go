package email

import (
	"context"
	"fmt"
	"time"

	"elitesite-backend/config"

	mail "github.com/wneessen/go-mail"
)

// SMTPTransport submits messages over authenticated SMTP
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	tlsMode  string
	timeout  time.Duration
}

// NewSMTPTransport creates an SMTP transport from configuration
func NewSMTPTransport(cfg *config.Config) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		tlsMode:  cfg.SMTPTLSMode,
		timeout:  cfg.MailTimeout(),
	}
}

func (t *SMTPTransport) Name() string { return config.TransportSMTP }

// IsConfigured reports whether host and credentials are present
func (t *SMTPTransport) IsConfigured() bool {
	return t.host != "" && t.username != "" && t.password != ""
}

// Send dials a fresh connection per message so connection state is never shared between requests
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	m, err := toMsg(msg)
	if err != nil {
		return err
	}

	opts, err := t.clientOptions()
	if err != nil {
		return err
	}

	client, err := mail.NewClient(t.host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (t *SMTPTransport) clientOptions() ([]mail.Option, error) {
	opts := []mail.Option{
		mail.WithPort(t.port),
	}
	if t.timeout > 0 {
		opts = append(opts, mail.WithTimeout(t.timeout))
	}

	switch t.tlsMode {
	case "ssl", "":
		opts = append(opts, mail.WithSSL())
	case "starttls":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("unsupported SMTP_TLS_MODE %q", t.tlsMode)
	}

	if t.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(t.authType()),
			mail.WithUsername(t.username),
			mail.WithPassword(t.password),
		)
	}
	return opts, nil
}

// authType picks PLAIN auth. go-mail refuses plain PLAIN over an unencrypted
// connection to anything but localhost, so "none" uses the NoEnc variant.
func (t *SMTPTransport) authType() mail.SMTPAuthType {
	if t.tlsMode == "none" {
		return mail.SMTPAuthPlainNoEnc
	}
	return mail.SMTPAuthPlain
}

// toMsg converts a composed Message into a MIME message with a text body and HTML alternative
func toMsg(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
