package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/5280sourcegroup/website/internal/content"
	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/internal/quoteform"
	"github.com/5280sourcegroup/website/internal/services"
	apperrors "github.com/5280sourcegroup/website/pkg/errors"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Multipart field names that are not part of the quote request itself.
const (
	FormTokenField = "formToken"
	RecaptchaField = "g-recaptcha-response"
)

var (
	sessionExpiredNotice = quoteform.Notification{
		Title:       "Session Expired",
		Description: "Your session expired. Please submit the form again.",
		Destructive: true,
	}
	tooLargeNotice = quoteform.Notification{
		Title:       "Submission Failed",
		Description: "File size must be less than 10MB",
		Destructive: true,
	}
	unreadableNotice = quoteform.Notification{
		Title:       "Submission Failed",
		Description: "There was an error submitting your request. Please try again.",
		Destructive: true,
	}
)

// QuoteHandler accepts quote requests from the page form and the JSON API.
type QuoteHandler struct {
	page             *PageHandler
	service          services.QuoteServiceInterface
	requireFormToken bool
}

func NewQuoteHandler(page *PageHandler, service services.QuoteServiceInterface, requireFormToken bool) *QuoteHandler {
	return &QuoteHandler{
		page:             page,
		service:          service,
		requireFormToken: requireFormToken,
	}
}

// SubmitForm handles the page form. Success redirects back to the quote section,
// which then shows the confirmation; anything else re-renders the form.
func (h *QuoteHandler) SubmitForm(c *gin.Context) {
	sub, err := readSubmission(c)
	form := sub.form
	if err != nil {
		attachError(c, err)
		notice := unreadableNotice
		if bodyStatus(err) == http.StatusRequestEntityTooLarge {
			notice = tooLargeNotice
		}
		form.Notify(notice)
		h.page.render(c, bodyStatus(err), form)
		return
	}

	if h.requireFormToken {
		if err := h.page.tokens.VerifyFormToken(sub.formToken); err != nil {
			attachError(c, apperrors.UnauthorizedError(err))
			form.Notify(sessionExpiredNotice)
			h.page.render(c, http.StatusForbidden, form)
			return
		}
	}

	err = form.Submit(c.Request.Context(), h.submitter(c, sub.recaptchaToken))
	switch {
	case err == nil:
		if err := h.page.setConfirmation(c, form.SubmittedEmail()); err != nil {
			logger.Error("Failed to issue confirmation", zap.Error(err))
			attachError(c, err)
			h.page.render(c, http.StatusOK, form)
			return
		}
		c.Redirect(http.StatusSeeOther, "/#"+content.AnchorQuoteForm)
	case errors.Is(err, quoteform.ErrValidation):
		recordValidationFailures(validationErrors(form))
		attachError(c, err)
		h.page.render(c, http.StatusUnprocessableEntity, form)
	default:
		attachError(c, err)
		h.page.render(c, submitStatus(err), form)
	}
}

// Reset forgets the confirmation and shows an empty form again.
func (h *QuoteHandler) Reset(c *gin.Context) {
	h.page.clearConfirmation(c)
	c.Redirect(http.StatusSeeOther, "/#"+content.AnchorQuoteForm)
}

// SubmitAPI handles POST /api/v1/quote-requests.
func (h *QuoteHandler) SubmitAPI(c *gin.Context) {
	sub, err := readSubmission(c)
	if err != nil {
		respondError(c, bodyStatus(err), "Invalid request body", err)
		return
	}
	form := sub.form

	err = form.Submit(c.Request.Context(), h.submitter(c, sub.recaptchaToken))
	if err == nil {
		c.JSON(http.StatusOK, models.SubmitQuoteResponse{Success: true, Email: form.SubmittedEmail()})
		return
	}

	if errors.Is(err, quoteform.ErrValidation) {
		details := validationErrors(form)
		recordValidationFailures(details)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details, err)
		return
	}

	var notice *quoteform.NoticeError
	if errors.As(err, &notice) {
		respondError(c, http.StatusBadRequest, notice.Description, err)
		return
	}
	respondError(c, http.StatusInternalServerError, "Failed to submit quote request", err)
}

// submitter passes the request-scoped anti-abuse inputs along with the quote request.
func (h *QuoteHandler) submitter(c *gin.Context, recaptchaToken string) quoteform.Submitter {
	return quoteform.SubmitterFunc(func(ctx context.Context, req *models.QuoteRequest) error {
		req.RecaptchaToken = recaptchaToken
		req.RemoteIP = c.ClientIP()
		return h.service.Submit(ctx, req)
	})
}

// submission is a posted quote form plus the fields that travel with it.
type submission struct {
	form           *quoteform.Form
	formToken      string
	recaptchaToken string
}

// readSubmission loads the posted fields and attachment into a fresh form. Fields read
// before a body error are kept, so the returned submission is never nil.
func readSubmission(c *gin.Context) (*submission, error) {
	sub := &submission{form: quoteform.New()}
	values := make(quoteform.Values)

	var file *models.QuoteAttachment
	mr, err := c.Request.MultipartReader()
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		err = sub.readURLEncoded(c.Request, values)
	case err != nil:
		err = apperrors.InvalidInputError("multipart form", err)
	default:
		file, err = sub.readParts(mr, values)
	}

	sub.form.SetValues(values)
	if file != nil {
		if rejection := sub.form.SelectFile(file); rejection != nil {
			metrics.AttachmentRejections.WithLabelValues(rejection.Reason).Inc()
		}
	}
	return sub, err
}

func (s *submission) readURLEncoded(r *http.Request, values quoteform.Values) error {
	err := r.ParseForm()
	for _, name := range quoteform.FieldNames() {
		values[name] = r.PostForm.Get(name)
	}
	s.formToken = r.PostForm.Get(FormTokenField)
	s.recaptchaToken = r.PostForm.Get(RecaptchaField)
	if err != nil {
		return apperrors.InvalidInputError("form body", err)
	}
	return nil
}

// readParts streams the multipart body. Once an attachment is known to be too large the
// rest of the body may be cut off by the size limit; the fields read so far still count.
func (s *submission) readParts(mr *multipart.Reader, values quoteform.Values) (*models.QuoteAttachment, error) {
	known := make(map[string]bool)
	for _, name := range quoteform.FieldNames() {
		known[name] = true
	}

	var file *models.QuoteAttachment
	oversized := func() bool { return file != nil && file.Size > quoteform.MaxAttachmentSize }
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return file, nil
		}
		if err != nil {
			if oversized() {
				return file, nil
			}
			return file, apperrors.InvalidInputError("multipart form", err)
		}

		name := part.FormName()
		switch {
		case name == FileField:
			if part.FileName() != "" {
				var att *models.QuoteAttachment
				if att, err = readAttachment(part); att != nil {
					file = att
				}
			}
		case known[name], name == FormTokenField, name == RecaptchaField:
			var value string
			value, err = readField(part)
			switch name {
			case FormTokenField:
				s.formToken = value
			case RecaptchaField:
				s.recaptchaToken = value
			default:
				values[name] = value
			}
		}
		part.Close()
		if err != nil {
			if oversized() {
				return file, nil
			}
			return file, apperrors.InvalidInputError(name, err)
		}
	}
}

// maxFieldBytes bounds a single text field; anything longer already fails validation.
const maxFieldBytes = 64 << 10

func readField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read field: %w", err)
	}
	return string(data), nil
}

// readAttachment loads an uploaded file. At most one byte past the attachment limit is
// read; an oversized file keeps only its size so it can be rejected.
func readAttachment(part *multipart.Part) (*models.QuoteAttachment, error) {
	contentType, _, _ := strings.Cut(part.Header.Get("Content-Type"), ";")
	att := &models.QuoteAttachment{
		FileName:    part.FileName(),
		ContentType: strings.ToLower(strings.TrimSpace(contentType)),
	}

	data, err := io.ReadAll(io.LimitReader(part, quoteform.MaxAttachmentSize+1))
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		att.Size = quoteform.MaxAttachmentSize + 1
		return att, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	att.Size = int64(len(data))
	if att.Size <= quoteform.MaxAttachmentSize {
		att.Data = data
	}
	return att, nil
}
