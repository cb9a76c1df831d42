package quoteform

import (
	"context"
	"errors"
	"fmt"

	"github.com/5280sourcegroup/website/internal/models"
)

// State is the lifecycle position of a quote form.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSubmittedSuccess
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmittedSuccess:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrValidation is returned by Submit when at least one field is invalid.
	ErrValidation = errors.New("quote request has invalid fields")

	// ErrInvalidTransition is returned when an action is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid form state transition")
)

// Notification is the transient toast shown after a submit attempt.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

var (
	successNotice = Notification{
		Title:       "Quote Request Submitted!",
		Description: "We'll review your information and get back to you soon.",
	}
	failureNotice = Notification{
		Title:       "Submission Failed",
		Description: "There was an error submitting your request. Please try again.",
		Destructive: true,
	}
)

// NoticeError lets a submitter replace the generic failure notification.
type NoticeError struct {
	Title       string
	Description string
	Err         error
}

func (e *NoticeError) Error() string {
	if e.Err != nil {
		return e.Title + ": " + e.Err.Error()
	}
	return e.Title
}

func (e *NoticeError) Unwrap() error { return e.Err }

// Rejection builds a NoticeError for a submission refused for a user-facing reason.
func Rejection(title, description string, err error) error {
	return &NoticeError{Title: title, Description: description, Err: err}
}

// Submitter delivers a validated quote request.
type Submitter interface {
	Submit(ctx context.Context, req *models.QuoteRequest) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req *models.QuoteRequest) error

func (f SubmitterFunc) Submit(ctx context.Context, req *models.QuoteRequest) error {
	return f(ctx, req)
}

// Form is the quote request form. It is not safe for concurrent use; each HTTP
// request drives its own Form.
type Form struct {
	state          State
	values         Values
	errors         FieldErrors
	file           *models.QuoteAttachment
	fileError      string
	submittedEmail string
	notification   *Notification
}

// New returns an empty form in the editing state.
func New() *Form {
	return &Form{
		state:  StateEditing,
		values: Values{},
		errors: FieldErrors{},
	}
}

// Submitted returns a form already in the success state for email, as restored from
// the confirmation cookie.
func Submitted(email string) *Form {
	f := New()
	f.state = StateSubmittedSuccess
	f.submittedEmail = email
	return f
}

func (f *Form) State() State { return f.state }
func (f *Form) Values() Values { return f.values }
func (f *Form) Errors() FieldErrors { return f.errors }
func (f *Form) File() *models.QuoteAttachment { return f.file }
func (f *Form) FileError() string { return f.fileError }
func (f *Form) SubmittedEmail() string { return f.submittedEmail }
func (f *Form) Notification() *Notification { return f.notification }
func (f *Form) FieldError(name string) string { return f.errors[name] }
func (f *Form) Value(name string) string { return f.values[name] }
func (f *Form) IsSubmitted() bool { return f.state == StateSubmittedSuccess }
func (f *Form) HasErrors() bool { return len(f.errors) > 0 || f.fileError != "" }
func (f *Form) Notify(n Notification) { f.notification = &n }

// AnnounceSuccess shows the notification of a successful submit, for a form restored
// right after one.
func (f *Form) AnnounceSuccess() { f.Notify(successNotice) }

// SetValue records raw input for one field. Stale errors for that field stay until the
// next validation, matching submit-time validation.
func (f *Form) SetValue(name, value string) {
	f.values[name] = value
}

// SetValues records raw input for several fields.
func (f *Form) SetValues(values Values) {
	for name, value := range values {
		f.values[name] = value
	}
}

// Touch re-validates a single field, as on blur.
func (f *Form) Touch(name string) {
	if msg := ValidateField(name, f.values[name]); msg != "" {
		f.errors[name] = msg
		return
	}
	delete(f.errors, name)
}

// SelectFile replaces the attachment. A nil file clears the selection. An invalid file
// is not kept and its rejection message becomes the file error.
func (f *Form) SelectFile(file *models.QuoteAttachment) *AttachmentError {
	f.fileError = ""
	if file == nil {
		f.file = nil
		return nil
	}

	if err := ValidateAttachment(file); err != nil {
		f.file = nil
		f.fileError = err.Message
		return err
	}

	f.file = file
	return nil
}

// Submit validates the form and hands the request to submitter. A nil submitter
// accepts every valid request.
func (f *Form) Submit(ctx context.Context, submitter Submitter) error {
	if f.state != StateEditing {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, f.state)
	}

	f.notification = nil
	f.errors = Validate(f.values)
	if len(f.errors) > 0 || f.fileError != "" {
		return ErrValidation
	}

	f.state = StateSubmitting
	req := f.values.QuoteRequest()
	req.Attachment = f.file

	if submitter != nil {
		if err := submitter.Submit(ctx, req); err != nil {
			f.state = StateEditing
			notice := failureNotice
			var ne *NoticeError
			if errors.As(err, &ne) {
				notice = Notification{Title: ne.Title, Description: ne.Description, Destructive: true}
			}
			f.notification = &notice
			return err
		}
	}

	f.submittedEmail = req.Email
	f.values = Values{}
	f.errors = FieldErrors{}
	f.file = nil
	f.fileError = ""
	notice := successNotice
	f.notification = &notice
	f.state = StateSubmittedSuccess
	return nil
}

// Reset returns a submitted form to a pristine editing state.
func (f *Form) Reset() error {
	if f.state != StateSubmittedSuccess {
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, f.state)
	}
	*f = *New()
	return nil
}
