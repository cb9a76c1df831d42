package quoteform

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/5280sourcegroup/website/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pdfBytes returns size bytes that sniff as a PDF document.
func pdfBytes(size int) []byte {
	header := []byte("%PDF-1.7\n")
	return append(header, bytes.Repeat([]byte{' '}, size-len(header))...)
}

func TestValidateAttachment(t *testing.T) {
	tests := []struct {
		name   string
		file   models.QuoteAttachment
		reason string
	}{
		{
			name:   "docx rejected by type",
			file:   models.QuoteAttachment{FileName: "report.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 2048},
			reason: ReasonType,
		},
		{
			name: "pdf of exactly 10 MiB accepted",
			file: models.QuoteAttachment{FileName: "bom.pdf", ContentType: PDFContentType, Size: MaxAttachmentSize},
		},
		{
			name:   "pdf one byte over rejected by size",
			file:   models.QuoteAttachment{FileName: "bom.pdf", ContentType: PDFContentType, Size: MaxAttachmentSize + 1},
			reason: ReasonSize,
		},
		{
			name:   "declared pdf with non pdf bytes",
			file:   models.QuoteAttachment{FileName: "fake.pdf", ContentType: PDFContentType, Size: 12, Data: []byte("hello world!")},
			reason: ReasonType,
		},
		{
			name: "pdf bytes accepted",
			file: models.QuoteAttachment{FileName: "quote.pdf", ContentType: PDFContentType, Size: 64, Data: pdfBytes(64)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachment(&tt.file)
			if tt.reason == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.reason, err.Reason)
		})
	}
}

func TestValidateAttachment_ExactLimitWithContent(t *testing.T) {
	data := pdfBytes(int(MaxAttachmentSize))
	assert.Nil(t, ValidateAttachment(&models.QuoteAttachment{FileName: "bom.pdf", ContentType: PDFContentType, Size: int64(len(data)), Data: data}))

	data = append(data, ' ')
	err := ValidateAttachment(&models.QuoteAttachment{FileName: "bom.pdf", ContentType: PDFContentType, Size: int64(len(data)), Data: data})
	require.NotNil(t, err)
	assert.Equal(t, "File size must be less than 10MB", err.Message)
}

func TestForm_SelectFile(t *testing.T) {
	form := New()

	err := form.SelectFile(&models.QuoteAttachment{FileName: "report.docx", ContentType: "application/msword", Size: 10})
	require.NotNil(t, err)
	assert.Nil(t, form.File(), "rejected file must not be retained")
	assert.Equal(t, "Please upload a PDF file only", form.FileError())

	good := &models.QuoteAttachment{FileName: "bom.pdf", ContentType: PDFContentType, Size: 1024}
	assert.Nil(t, form.SelectFile(good))
	assert.Empty(t, form.FileError(), "new selection clears prior error")
	assert.Equal(t, good, form.File())

	assert.Nil(t, form.SelectFile(nil))
	assert.Nil(t, form.File())
}

func TestForm_SubmitEndToEnd(t *testing.T) {
	form := New()
	form.SetValues(validValues())

	var received *models.QuoteRequest
	err := form.Submit(context.Background(), SubmitterFunc(func(ctx context.Context, req *models.QuoteRequest) error {
		assert.Equal(t, StateSubmitting, form.State())
		received = req
		return nil
	}))
	require.NoError(t, err)

	require.NotNil(t, received)
	assert.Equal(t, "Acme", received.CompanyName)
	assert.Nil(t, received.Attachment)

	assert.Equal(t, StateSubmittedSuccess, form.State())
	assert.Equal(t, "john@acme.com", form.SubmittedEmail())
	assert.Empty(t, form.Values())
	assert.Empty(t, form.Errors())
	require.NotNil(t, form.Notification())
	assert.Equal(t, "Quote Request Submitted!", form.Notification().Title)
}

func TestForm_SubmitWithoutSubmitterSucceeds(t *testing.T) {
	form := New()
	form.SetValues(validValues())

	require.NoError(t, form.Submit(context.Background(), nil))
	assert.True(t, form.IsSubmitted())
}

func TestForm_SubmitBlockedByValidation(t *testing.T) {
	form := New()
	values := validValues()
	values[FieldPhone] = "555"
	form.SetValues(values)

	called := false
	err := form.Submit(context.Background(), SubmitterFunc(func(ctx context.Context, req *models.QuoteRequest) error {
		called = true
		return nil
	}))

	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, called)
	assert.Equal(t, StateEditing, form.State())
	assert.Equal(t, "Please enter a valid phone number", form.FieldError(FieldPhone))
	assert.Equal(t, "555", form.Value(FieldPhone), "values are kept for correction")
}

func TestForm_SubmitBlockedByRejectedFile(t *testing.T) {
	form := New()
	form.SetValues(validValues())
	form.SelectFile(&models.QuoteAttachment{FileName: "huge.pdf", ContentType: PDFContentType, Size: MaxAttachmentSize + 1})

	err := form.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StateEditing, form.State())
}

func TestForm_SubmitterFailure(t *testing.T) {
	form := New()
	form.SetValues(validValues())

	err := form.Submit(context.Background(), SubmitterFunc(func(ctx context.Context, req *models.QuoteRequest) error {
		return errors.New("store unavailable")
	}))

	require.Error(t, err)
	assert.Equal(t, StateEditing, form.State())
	assert.Equal(t, "John", form.Value(FieldFirstName))
	require.NotNil(t, form.Notification())
	assert.Equal(t, "Submission Failed", form.Notification().Title)
	assert.True(t, form.Notification().Destructive)
}

func TestForm_SubmitterRejectionNotice(t *testing.T) {
	form := New()
	form.SetValues(validValues())

	err := form.Submit(context.Background(), SubmitterFunc(func(ctx context.Context, req *models.QuoteRequest) error {
		return Rejection("Verification Failed", "Please complete the captcha and try again.", nil)
	}))

	require.Error(t, err)
	assert.Equal(t, "Verification Failed", form.Notification().Title)
	assert.Equal(t, "Please complete the captcha and try again.", form.Notification().Description)
}

func TestForm_ResetAfterSuccess(t *testing.T) {
	form := New()
	values := validValues()
	values[FieldEmail] = "bad"
	form.SetValues(values)
	require.ErrorIs(t, form.Submit(context.Background(), nil), ErrValidation)

	form.SetValue(FieldEmail, "john@acme.com")
	require.NoError(t, form.Submit(context.Background(), nil))

	require.NoError(t, form.Reset())
	assert.Equal(t, StateEditing, form.State())
	assert.Empty(t, form.Values())
	assert.Empty(t, form.Errors())
	assert.Empty(t, form.FileError())
	assert.Empty(t, form.SubmittedEmail())
	assert.Nil(t, form.Notification())
}

func TestForm_InvalidTransitions(t *testing.T) {
	assert.ErrorIs(t, New().Reset(), ErrInvalidTransition)

	submitted := Submitted("john@acme.com")
	assert.ErrorIs(t, submitted.Submit(context.Background(), nil), ErrInvalidTransition)
	assert.Equal(t, "john@acme.com", submitted.SubmittedEmail())
}

func TestForm_SubmittedAnnouncesOnRequest(t *testing.T) {
	restored := Submitted("john@acme.com")
	assert.Nil(t, restored.Notification())

	restored.AnnounceSuccess()
	require.NotNil(t, restored.Notification())
	assert.Equal(t, "Quote Request Submitted!", restored.Notification().Title)
	assert.False(t, restored.Notification().Destructive)
}

func TestForm_Touch(t *testing.T) {
	form := New()
	form.SetValue(FieldMessage, "short")
	form.Touch(FieldMessage)
	assert.Equal(t, "Please describe your project or materials needed", form.FieldError(FieldMessage))

	form.SetValue(FieldMessage, "Need 40 bags of concrete")
	form.Touch(FieldMessage)
	assert.Empty(t, form.FieldError(FieldMessage))
}
