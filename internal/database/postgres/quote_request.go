package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"go.uber.org/zap"
)

const insertQuoteRequest = `
	INSERT INTO quote_requests (
		id, first_name, last_name, email, phone, company_name, job_title, industry,
		address, message, attachment_name, attachment_key, attachment_url, attachment_size, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING created_at
`

// CreateQuoteRequest inserts rec and fills in its creation time.
func (c *Client) CreateQuoteRequest(ctx context.Context, rec *models.QuoteRecord) error {
	start := time.Now()
	operation := "createQuoteRequest"

	req := rec.Request
	var attachmentName *string
	var attachmentSize *int64
	if req.Attachment != nil {
		attachmentName = &req.Attachment.FileName
		attachmentSize = &rec.AttachmentSize
	}

	err := c.db.QueryRow(ctx, insertQuoteRequest,
		rec.ID,
		req.FirstName,
		req.LastName,
		req.Email,
		req.Phone,
		req.CompanyName,
		req.JobTitle,
		req.Industry,
		req.Address,
		req.Message,
		attachmentName,
		nilIfEmpty(rec.AttachmentKey),
		nilIfEmpty(rec.AttachmentURL),
		attachmentSize,
		string(rec.Status),
	).Scan(&rec.CreatedAt)

	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create quote request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("quote_id", rec.ID.String()))
	return nil
}
