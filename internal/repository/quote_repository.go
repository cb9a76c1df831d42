package repository

import (
	"context"
	"time"

	"github.com/5280sourcegroup/website/internal/database/postgres"
	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/pkg/retry"
)

// QuoteRepository handles quote request persistence
type QuoteRepository struct {
	client *postgres.Client
	retry  retry.Config
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(client *postgres.Client) *QuoteRepository {
	return &QuoteRepository{
		client: client,
		retry:  retry.DatabaseConfig(),
	}
}

// Create stores a quote request. Transient failures are retried.
func (r *QuoteRepository) Create(ctx context.Context, rec *models.QuoteRecord) error {
	return retry.Do(ctx, r.retry, "postgres.createQuoteRequest", func() error {
		return r.client.CreateQuoteRequest(ctx, rec)
	})
}

// Ping checks the underlying database.
func (r *QuoteRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(ctx)
}
