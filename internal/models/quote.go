package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRequest is the lead captured by the quote form. All text fields are trimmed
// before they reach this struct.
type QuoteRequest struct {
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	CompanyName string           `json:"companyName"`
	JobTitle    string           `json:"jobTitle"`
	Industry    string           `json:"industry"`
	Address     string           `json:"address,omitempty"`
	Message     string           `json:"message"`
	Attachment  *QuoteAttachment `json:"attachment,omitempty"`

	// Anti-abuse inputs, never persisted
	RecaptchaToken string `json:"-"`
	RemoteIP       string `json:"-"`
}

// FullName joins first and last name
func (q *QuoteRequest) FullName() string {
	return q.FirstName + " " + q.LastName
}

// QuoteAttachment is the single optional file (supplier quote or BOM) sent with a request
type QuoteAttachment struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// QuoteStatus tracks a stored quote request through the brokerage workflow
type QuoteStatus string

// QuoteStatusNew is the status every submission is stored with. Later workflow states
// are set outside this service.
const QuoteStatusNew QuoteStatus = "new"

// QuoteRecord is a persisted quote request
type QuoteRecord struct {
	ID             uuid.UUID
	Request        QuoteRequest
	AttachmentKey  string
	AttachmentURL  string
	AttachmentSize int64
	Status         QuoteStatus
	CreatedAt      time.Time
}

// SubmitQuoteResponse is the JSON API response for a quote submission
type SubmitQuoteResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
