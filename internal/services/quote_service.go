package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/5280sourcegroup/website/internal/cache"
	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/internal/quoteform"
	"github.com/5280sourcegroup/website/internal/repository"
	apperrors "github.com/5280sourcegroup/website/pkg/errors"
	"github.com/5280sourcegroup/website/pkg/httpclient"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/mailer"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/5280sourcegroup/website/pkg/storage"
	"github.com/5280sourcegroup/website/pkg/tracing"
	"github.com/5280sourcegroup/website/pkg/trigger"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QuoteServiceDeps wires the optional collaborators of QuoteService. A nil collaborator
// disables its step.
type QuoteServiceDeps struct {
	Captcha     CaptchaVerifier
	Attachments AttachmentStore
	Store       repository.QuoteStore
	Notifier    Notifier
	Duplicates  *cache.SubmissionCache
	HTTPClient  httpclient.Client

	NotifyEmail string
	TriggerURL  string
}

// QuoteService delivers validated quote requests to the brokerage
type QuoteService struct {
	deps     QuoteServiceDeps
	sanitize *bluemonday.Policy
	newID    func() uuid.UUID
}

// NewQuoteService creates a new quote service instance
func NewQuoteService(deps QuoteServiceDeps) *QuoteService {
	return &QuoteService{
		deps:     deps,
		sanitize: bluemonday.StrictPolicy(),
		newID:    uuid.New,
	}
}

var _ quoteform.Submitter = (*QuoteService)(nil)

// Submit runs the delivery pipeline for req: captcha check, duplicate suppression,
// attachment upload, persistence, notification and the created trigger. With no
// collaborators configured it accepts every request.
func (s *QuoteService) Submit(ctx context.Context, req *models.QuoteRequest) (err error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteService.Submit",
		attribute.Bool("quote.has_attachment", req.Attachment != nil))
	defer func() { tracing.EndSpan(span, err) }()

	if s.deps.Captcha != nil {
		if err := s.deps.Captcha.Verify(ctx, req.RecaptchaToken, req.RemoteIP); err != nil {
			metrics.QuoteSubmissions.WithLabelValues("captcha_failed").Inc()
			logger.Warn("ReCAPTCHA verification failed", zap.Error(err))
			return quoteform.Rejection(
				"Verification Failed",
				"Please complete the captcha and try again.",
				err,
			)
		}
	}

	fingerprint := cache.Fingerprint(req)
	if s.deps.Duplicates != nil {
		if id, seen := s.deps.Duplicates.Seen(fingerprint); seen {
			metrics.QuoteSubmissions.WithLabelValues("duplicate").Inc()
			logger.Info("Duplicate quote request ignored", zap.String("quote_id", id))
			return nil
		}
	}

	rec := &models.QuoteRecord{
		ID:      s.newID(),
		Request: s.clean(req),
		Status:  models.QuoteStatusNew,
	}

	if att := req.Attachment; att != nil && s.deps.Attachments != nil {
		rec.AttachmentKey = storage.AttachmentKey(rec.ID, att.FileName)
		rec.AttachmentSize = int64(len(att.Data))
		url, err := s.deps.Attachments.Upload(ctx, rec.AttachmentKey, att.Data, quoteform.PDFContentType)
		if err != nil {
			metrics.QuoteSubmissions.WithLabelValues("error").Inc()
			logger.Error("Failed to upload quote attachment", zap.Error(err), zap.String("quote_id", rec.ID.String()))
			return apperrors.UnavailableError("attachment storage", err)
		}
		rec.AttachmentURL = url
		metrics.AttachmentBytes.Observe(float64(rec.AttachmentSize))
	}

	if s.deps.Store != nil {
		if err := s.deps.Store.Create(ctx, rec); err != nil {
			metrics.QuoteSubmissions.WithLabelValues("error").Inc()
			logger.LogError(err, "Failed to store quote request", zap.String("quote_id", rec.ID.String()))
			return apperrors.UnavailableError("quote store", err)
		}
	}

	if s.deps.Duplicates != nil {
		s.deps.Duplicates.Remember(fingerprint, rec.ID.String())
	}

	if s.deps.Notifier != nil && s.deps.NotifyEmail != "" {
		if _, err := s.deps.Notifier.Send(ctx, notificationFor(rec, s.deps.NotifyEmail)); err != nil {
			logger.Error("Failed to send quote notification", zap.Error(err), zap.String("quote_id", rec.ID.String()))
		}
	}

	if s.deps.HTTPClient != nil {
		trigger.CallAsync(s.deps.TriggerURL, rec.ID.String(), s.deps.HTTPClient)
	}

	metrics.QuoteSubmissions.WithLabelValues("success").Inc()
	logger.Info("Quote request submitted",
		zap.String("quote_id", rec.ID.String()),
		zap.String("company", rec.Request.CompanyName),
		zap.Bool("has_attachment", req.Attachment != nil))
	return nil
}

// clean strips markup from free text. The result is plain text; templates escape it again
// on output.
func (s *QuoteService) clean(req *models.QuoteRequest) models.QuoteRequest {
	text := func(v string) string {
		return strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(v)))
	}

	out := *req
	out.FirstName = text(req.FirstName)
	out.LastName = text(req.LastName)
	out.Phone = text(req.Phone)
	out.CompanyName = text(req.CompanyName)
	out.JobTitle = text(req.JobTitle)
	out.Industry = text(req.Industry)
	out.Address = text(req.Address)
	out.Message = text(req.Message)
	out.RecaptchaToken = ""
	return out
}

func notificationFor(rec *models.QuoteRecord, to string) mailer.Message {
	req := rec.Request

	var b strings.Builder
	fmt.Fprintf(&b, "New quote request %s\n\n", rec.ID)
	fmt.Fprintf(&b, "Name:     %s\n", req.FullName())
	fmt.Fprintf(&b, "Email:    %s\n", req.Email)
	fmt.Fprintf(&b, "Phone:    %s\n", req.Phone)
	fmt.Fprintf(&b, "Company:  %s\n", req.CompanyName)
	fmt.Fprintf(&b, "Title:    %s\n", req.JobTitle)
	fmt.Fprintf(&b, "Industry: %s\n", req.Industry)
	if req.Address != "" {
		fmt.Fprintf(&b, "Address:  %s\n", req.Address)
	}
	fmt.Fprintf(&b, "\n%s\n", req.Message)
	switch {
	case rec.AttachmentURL != "":
		fmt.Fprintf(&b, "\nAttachment: %s (%d bytes)\n%s\n", req.Attachment.FileName, rec.AttachmentSize, rec.AttachmentURL)
	case req.Attachment != nil:
		fmt.Fprintf(&b, "\nAttachment: %s (attached)\n", req.Attachment.FileName)
	}

	msg := mailer.Message{
		To:      to,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("Quote request: %s (%s)", req.CompanyName, req.FullName()),
		Text:    b.String(),
	}
	// Without object storage the PDF travels with the e-mail.
	if rec.AttachmentURL == "" && req.Attachment != nil && len(req.Attachment.Data) > 0 {
		msg.Attachments = []mailer.Attachment{{FileName: req.Attachment.FileName, Data: req.Attachment.Data}}
	}
	return msg
}
