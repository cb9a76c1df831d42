package quoteform

import (
	"github.com/5280sourcegroup/website/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxAttachmentSize is the largest accepted attachment, 10 MiB.
	MaxAttachmentSize int64 = 10 * 1024 * 1024

	// PDFContentType is the only accepted attachment type.
	PDFContentType = "application/pdf"
)

// Attachment rejection reasons, used as metric labels.
const (
	ReasonType = "type"
	ReasonSize = "size"
)

// AttachmentError reports why a selected file was rejected.
type AttachmentError struct {
	Reason  string
	Message string
}

func (e *AttachmentError) Error() string {
	return e.Message
}

var (
	errNotPDF = &AttachmentError{Reason: ReasonType, Message: "Please upload a PDF file only"}
	errTooBig = &AttachmentError{Reason: ReasonSize, Message: "File size must be less than 10MB"}
)

// ValidateAttachment checks the declared type, the size and, when the bytes are
// present, that the content really is a PDF.
func ValidateAttachment(file *models.QuoteAttachment) *AttachmentError {
	if file.ContentType != PDFContentType {
		return errNotPDF
	}

	size := file.Size
	if n := int64(len(file.Data)); n > size {
		size = n
	}
	if size > MaxAttachmentSize {
		return errTooBig
	}

	if len(file.Data) > 0 && !mimetype.Detect(file.Data).Is(PDFContentType) {
		return errNotPDF
	}

	return nil
}
