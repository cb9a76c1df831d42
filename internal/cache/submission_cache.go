package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const cacheName = "submissions"

// SubmissionCache remembers recent quote submissions so a double-posted form is stored
// only once.
type SubmissionCache struct {
	cache *gocache.Cache
}

// NewSubmissionCache keeps fingerprints for window.
func NewSubmissionCache(window time.Duration) *SubmissionCache {
	c := &SubmissionCache{
		cache: gocache.New(window, 2*window),
	}
	c.cache.OnEvicted(func(string, interface{}) { c.recordSize() })
	return c
}

// Fingerprint identifies a submission by requester, message and attachment name.
func Fingerprint(req *models.QuoteRequest) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(req.Email)))
	h.Write([]byte{0})
	h.Write([]byte(req.Message))
	h.Write([]byte{0})
	if req.Attachment != nil {
		h.Write([]byte(req.Attachment.FileName))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Seen returns the quote id stored for fingerprint, if it was submitted within the window.
func (c *SubmissionCache) Seen(fingerprint string) (string, bool) {
	v, found := c.cache.Get(fingerprint)
	if !found {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// Remember records a stored submission.
func (c *SubmissionCache) Remember(fingerprint, quoteID string) {
	c.cache.SetDefault(fingerprint, quoteID)
	c.recordSize()
}

// Len returns the number of remembered submissions, including expired ones not yet purged.
func (c *SubmissionCache) Len() int {
	return c.cache.ItemCount()
}

func (c *SubmissionCache) recordSize() {
	metrics.CacheSize.WithLabelValues(cacheName).Set(float64(c.Len()))
}
