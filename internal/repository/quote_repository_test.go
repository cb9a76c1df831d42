package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/5280sourcegroup/website/internal/database/postgres"
	"github.com/5280sourcegroup/website/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct{ err error }

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*time.Time)) = time.Unix(1700000000, 0).UTC()
	return nil
}

// flakyDB fails its first `failures` inserts.
type flakyDB struct {
	failures int
	calls    int
	pingErr  error
}

func (d *flakyDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	d.calls++
	if d.calls <= d.failures {
		return row{err: errors.New("connection reset by peer")}
	}
	return row{}
}

func (d *flakyDB) Ping(ctx context.Context) error { return d.pingErr }

func newRepo(db postgres.DB) *QuoteRepository {
	r := NewQuoteRepository(postgres.NewClient(db))
	r.retry.InitialDelay = time.Millisecond
	r.retry.MaxDelay = time.Millisecond
	r.retry.Jitter = false
	return r
}

func TestQuoteRepository_CreateRetries(t *testing.T) {
	db := &flakyDB{failures: 1}
	rec := &models.QuoteRecord{ID: uuid.New(), Status: models.QuoteStatusNew}

	require.NoError(t, newRepo(db).Create(context.Background(), rec))
	assert.Equal(t, 2, db.calls)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestQuoteRepository_CreateGivesUp(t *testing.T) {
	db := &flakyDB{failures: 10}

	err := newRepo(db).Create(context.Background(), &models.QuoteRecord{ID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, 3, db.calls)
}

func TestQuoteRepository_Ping(t *testing.T) {
	assert.NoError(t, newRepo(&flakyDB{}).Ping(context.Background()))
	assert.Error(t, newRepo(&flakyDB{pingErr: errors.New("down")}).Ping(context.Background()))
}
