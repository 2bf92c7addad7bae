package usecase

import (
	"context"
	"fmt"
	"strings"

	"elitesite-backend/internal/domain"
	"elitesite-backend/pkg/email"
)

type contactUsecase struct {
	emailService *email.EmailService
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(emailService *email.EmailService) domain.ContactUsecase {
	return &contactUsecase{
		emailService: emailService,
	}
}

// SendContactMessage re-validates the submission and relays it as one email.
// No deduplication: identical submissions produce independent messages.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	senderEmail := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)

	// The client validates too, but is not trusted
	if name == "" || senderEmail == "" || message == "" {
		return domain.ErrMissingFields
	}

	if !uc.emailService.IsConfigured() {
		return domain.ErrMailNotConfigured
	}

	emailData := email.ContactEmailData{
		SenderName:  name,
		SenderEmail: senderEmail,
		Message:     message,
	}

	if err := uc.emailService.SendContactEmail(ctx, emailData); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	return nil
}
