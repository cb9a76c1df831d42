package handlers

import (
	"github.com/5280sourcegroup/website/internal/quoteform"
	"github.com/5280sourcegroup/website/pkg/metrics"
)

// FileField is the multipart part carrying the attachment.
const FileField = "file"

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationErrors lists the form's errors in display order, the attachment last.
func validationErrors(form *quoteform.Form) []ValidationError {
	var errs []ValidationError
	for _, name := range quoteform.FieldNames() {
		if msg := form.FieldError(name); msg != "" {
			errs = append(errs, ValidationError{Field: name, Message: msg})
		}
	}
	if msg := form.FileError(); msg != "" {
		errs = append(errs, ValidationError{Field: FileField, Message: msg})
	}
	return errs
}

func recordValidationFailures(errs []ValidationError) {
	for _, e := range errs {
		metrics.QuoteValidationFailures.WithLabelValues(e.Field).Inc()
	}
}
