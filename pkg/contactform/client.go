package contactform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GenericFailure is shown whenever the relay's reply cannot be trusted
const GenericFailure = "Failed to send message, try again or contact us directly"

const sendEmailPath = "/api/send-email"

// Result mirrors the relay's {success, message} reply
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Sender delivers one submission and always produces a Result
type Sender interface {
	Send(ctx context.Context, draft Draft) Result
}

// Client posts submissions to the relay endpoint
type Client struct {
	http     *resty.Client
	fallback string
}

// NewClient creates a client for the relay at baseURL. Requests are bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// WithFallback sets an alternate contact (email address, WhatsApp link)
// that is appended to every failure result.
func (c *Client) WithFallback(contact string) *Client {
	c.fallback = strings.TrimSpace(contact)
	return c
}

// Send issues exactly one POST; there is no retry.
// Any non-2xx reply is reported with the generic failure message, the relay's
// own text is only shown for well-formed 2xx replies.
func (c *Client) Send(ctx context.Context, draft Draft) Result {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(draft).
		Post(sendEmailPath)
	if err != nil {
		return c.failure(GenericFailure)
	}
	if !resp.IsSuccess() {
		return c.failure(GenericFailure)
	}

	var res struct {
		Success *bool   `json:"success"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &res); err != nil || res.Success == nil || res.Message == nil {
		return c.failure(GenericFailure)
	}
	if !*res.Success {
		msg := *res.Message
		if msg == "" {
			msg = GenericFailure
		}
		return c.failure(msg)
	}

	return Result{Success: true, Message: *res.Message}
}

func (c *Client) failure(msg string) Result {
	if c.fallback != "" {
		msg = fmt.Sprintf("%s. You can also reach us at %s", strings.TrimSuffix(msg, "."), c.fallback)
	}
	return Result{Success: false, Message: msg}
}
