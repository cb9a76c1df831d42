package postgres

import (
	"context"

	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/jackc/pgx/v5"
)

// DB is the part of *pgxpool.Pool the client uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Client runs quote store queries with observability
type Client struct {
	db DB
}

// NewClient wraps an open pool.
func NewClient(db DB) *Client {
	return &Client{db: db}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

func recordMetrics(operation, status string, duration float64) {
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
