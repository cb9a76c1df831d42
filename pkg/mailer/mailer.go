package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/5280sourcegroup/website/pkg/circuitbreaker"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// SendTimeout bounds a single delivery attempt.
const SendTimeout = 30 * time.Second

// Message is an outgoing e-mail.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string

	Attachments []Attachment
}

// Attachment is a file sent inline with a message.
type Attachment struct {
	FileName string
	Data     []byte
}

// Transport delivers a message and returns the provider message id.
type Transport interface {
	Send(ctx context.Context, from string, msg Message) (string, error)
}

// Config configures the Mailgun transport.
type Config struct {
	Domain    string
	APIKey    string
	FromEmail string
	FromName  string
}

// Mailer sends e-mail through a Transport guarded by a circuit breaker.
type Mailer struct {
	transport Transport
	from      string
	breaker   *gobreaker.CircuitBreaker
}

// New returns a Mailer backed by Mailgun.
func New(cfg Config) *Mailer {
	return NewWithTransport(&mailgunTransport{client: mailgun.NewMailgun(cfg.Domain, cfg.APIKey)}, cfg.FromName, cfg.FromEmail)
}

// NewWithTransport returns a Mailer using transport.
func NewWithTransport(transport Transport, fromName, fromEmail string) *Mailer {
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &Mailer{
		transport: transport,
		from:      from,
		breaker:   circuitbreaker.New(circuitbreaker.DefaultConfig("mailgun")),
	}
}

// Send delivers msg and returns its message id.
func (m *Mailer) Send(ctx context.Context, msg Message) (string, error) {
	start := time.Now()

	id, err := circuitbreaker.Execute(m.breaker, func() (string, error) {
		sendCtx, cancel := context.WithTimeout(ctx, SendTimeout)
		defer cancel()
		return m.transport.Send(sendCtx, m.from, msg)
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.MailSendTotal.WithLabelValues("error").Inc()
		logger.LogAPICall("mailgun", "send", "error", duration,
			zap.Error(err),
			zap.String("subject", msg.Subject))
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	metrics.MailSendTotal.WithLabelValues("success").Inc()
	logger.LogAPICall("mailgun", "send", "success", duration,
		zap.String("message_id", id))
	return id, nil
}

type mailgunTransport struct {
	client *mailgun.MailgunImpl
}

func (t *mailgunTransport) Send(ctx context.Context, from string, msg Message) (string, error) {
	message := t.client.NewMessage(from, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}
	for _, a := range msg.Attachments {
		message.AddBufferAttachment(a.FileName, a.Data)
	}

	_, id, err := t.client.Send(ctx, message)
	return id, err
}
