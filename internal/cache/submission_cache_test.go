package cache

import (
	"testing"
	"time"

	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/pkg/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheSizeGauge(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.CacheSize.WithLabelValues(cacheName).Write(&m))
	return m.GetGauge().GetValue()
}

func TestFingerprint(t *testing.T) {
	base := &models.QuoteRequest{Email: "John@Acme.com", Message: "Need 50 sheets of drywall"}
	same := &models.QuoteRequest{Email: "john@acme.com", Message: "Need 50 sheets of drywall", FirstName: "Johnny"}
	withFile := &models.QuoteRequest{
		Email:      "john@acme.com",
		Message:    "Need 50 sheets of drywall",
		Attachment: &models.QuoteAttachment{FileName: "bom.pdf"},
	}

	assert.Equal(t, Fingerprint(base), Fingerprint(same), "email case and other fields are ignored")
	assert.NotEqual(t, Fingerprint(base), Fingerprint(withFile))
}

func TestSubmissionCache_SeenAndRemember(t *testing.T) {
	c := NewSubmissionCache(time.Minute)
	key := Fingerprint(&models.QuoteRequest{Email: "a@b.co", Message: "0123456789"})

	_, seen := c.Seen(key)
	assert.False(t, seen)

	c.Remember(key, "quote-1")
	id, seen := c.Seen(key)
	assert.True(t, seen)
	assert.Equal(t, "quote-1", id)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, float64(1), cacheSizeGauge(t))

	c.Remember(Fingerprint(&models.QuoteRequest{Email: "c@d.co", Message: "0123456789"}), "quote-2")
	assert.Equal(t, float64(2), cacheSizeGauge(t))
}

func TestSubmissionCache_Expires(t *testing.T) {
	c := NewSubmissionCache(20 * time.Millisecond)
	c.Remember("k", "quote-1")

	assert.Eventually(t, func() bool {
		_, seen := c.Seen("k")
		return !seen
	}, time.Second, 10*time.Millisecond)

	// the janitor purges the entry and the size gauge follows
	assert.Eventually(t, func() bool {
		return c.Len() == 0 && cacheSizeGauge(t) == 0
	}, time.Second, 10*time.Millisecond)
}
