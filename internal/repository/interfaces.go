package repository

import (
	"context"

	"github.com/5280sourcegroup/website/internal/models"
)

// QuoteStore persists submitted quote requests
type QuoteStore interface {
	// Create stores rec and sets its CreatedAt
	Create(ctx context.Context, rec *models.QuoteRecord) error
}
