package domain

import (
	"context"
	"errors"
)

// User-facing messages of the relay endpoint
const (
	MsgEmailSent        = "Email sent successfully!"
	MsgMissingFields    = "Missing required fields: name, email, and message are required"
	MsgSendFailed       = "Failed to send email."
	MsgServerError      = "Server error occurred while sending email"
	MsgMethodNotAllowed = "Method not allowed."
	MsgTooManyRequests  = "Too many requests. Please try again later."
)

var (
	// ErrMissingFields is returned when name, email or message is empty after trimming
	ErrMissingFields = errors.New("missing required fields")
	// ErrMailNotConfigured is returned when no outbound transport is usable
	ErrMailNotConfigured = errors.New("email service is not configured")
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates and relays a contact form message
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}

// HealthUsecase reports liveness of the service
type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}
