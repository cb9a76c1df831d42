package services

import (
	"context"

	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/pkg/mailer"
)

// QuoteServiceInterface defines the interface for quote submission
type QuoteServiceInterface interface {
	Submit(ctx context.Context, req *models.QuoteRequest) error
}

// CaptchaVerifier checks a reCAPTCHA response token
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// AttachmentStore uploads quote attachments and returns their URL
type AttachmentStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Notifier delivers e-mail notifications
type Notifier interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}
