package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mail transport identifiers accepted by MAIL_TRANSPORT
const (
	TransportSMTP    = "smtp"
	TransportMailgun = "mailgun"
	TransportLog     = "log"
)

type Config struct {
	Port     string
	LogLevel string
	// CORS: comma separated origins, "*" allows any origin
	CORSAllowedOrigins []string
	// Proxies whose X-Forwarded-For is believed; empty means client IP is the peer address
	TrustedProxies []string
	// Outbound mail
	MailTransport      string
	MailTimeoutSeconds int
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPTLSMode        string // ssl, starttls or none
	SMTPFromEmail      string // Fixed sender, never taken from the request
	ContactEmailTo     string
	MailgunDomain      string
	MailgunAPIKey      string
	// Redis (optional, rate limiting)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	ContactRateLimit       int
	// HTTP server
	HTTPReadTimeoutSeconds  int
	HTTPWriteTimeoutSeconds int
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; missing file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TrustedProxies:     splitList(getEnv("TRUSTED_PROXIES", "")),
		// Mail Configuration
		MailTransport:      strings.ToLower(getEnv("MAIL_TRANSPORT", TransportSMTP)),
		MailTimeoutSeconds: getEnvInt("MAIL_TIMEOUT_SECONDS", 15),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 465),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPTLSMode:        strings.ToLower(getEnv("SMTP_TLS_MODE", "ssl")),
		SMTPFromEmail:      getEnv("SMTP_FROM_EMAIL", ""),
		ContactEmailTo:     getEnv("CONTACT_EMAIL_TO", ""),
		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		ContactRateLimit:       getEnvInt("CONTACT_RATE_LIMIT", 5),
		// HTTP server
		HTTPReadTimeoutSeconds:  getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 10),
		HTTPWriteTimeoutSeconds: getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30),
	}

	// Sender defaults to the SMTP login, which most providers require
	if cfg.SMTPFromEmail == "" {
		cfg.SMTPFromEmail = cfg.SMTPUsername
	}
	if cfg.ContactEmailTo == "" {
		cfg.ContactEmailTo = cfg.SMTPFromEmail
	}

	if cfg.ContactEmailTo == "" {
		log.Println("WARNING: CONTACT_EMAIL_TO is missing. Contact submissions cannot be delivered.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// MailTimeout is the upper bound for one outbound dispatch
func (c *Config) MailTimeout() time.Duration {
	return time.Duration(c.MailTimeoutSeconds) * time.Second
}

// RateLimitWindow is the window used by the contact rate limiter
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
