package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SMTP_USERNAME", "support@example.com")
	t.Setenv("SMTP_FROM_EMAIL", "")
	t.Setenv("CONTACT_EMAIL_TO", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("MAIL_TRANSPORT", "smtp")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, TransportSMTP, cfg.MailTransport)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "ssl", cfg.SMTPTLSMode)
	assert.Equal(t, "support@example.com", cfg.SMTPFromEmail)
	assert.Equal(t, "support@example.com", cfg.ContactEmailTo)
	assert.Empty(t, cfg.SMTPPassword)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, 15*time.Second, cfg.MailTimeout())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MAIL_TRANSPORT", "Mailgun")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("CONTACT_RATE_LIMIT", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://elitesite.example/, http://localhost:5173 ,")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, TransportMailgun, cfg.MailTransport)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 5, cfg.ContactRateLimit)
	assert.Equal(t, []string{"https://elitesite.example", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow())
}
