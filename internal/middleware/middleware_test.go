package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Level: "debug", Environment: "development"}); err != nil {
		panic(err)
	}
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, rate.Every(time.Hour), 2)
	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/quote", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/quote", http.NoBody)
		req.RemoteAddr = "198.51.100.4:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quote", http.NoBody)
	req.RemoteAddr = "198.51.100.5:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, rate.Every(time.Hour), 2)
	rl.getVisitor("a").Allow()
	rl.getVisitor("b")

	rl.evictIdle()

	assert.Equal(t, 1, rl.visitorCount())
}

func TestBodySizeLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimitMiddleware(16))
	reached := false
	router.POST("/quote", func(c *gin.Context) {
		reached = true
		var maxBytes *http.MaxBytesError
		if _, err := io.ReadAll(c.Request.Body); errors.As(err, &maxBytes) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"small body", http.MethodPost, "hello", http.StatusOK},
		{"too large is left to the handler", http.MethodPost, strings.Repeat("x", 32), http.StatusRequestEntityTooLarge},
		{"get is not limited", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.method == http.MethodPost {
				req = httptest.NewRequest(tt.method, "/quote", strings.NewReader(tt.body))
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.method == http.MethodPost, reached)
		})
	}
}

func TestBodySizeLimit_UndeclaredLength(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimitMiddleware(16))
	router.POST("/quote", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		require.Error(t, err)
		c.Status(http.StatusRequestEntityTooLarge)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quote", strings.NewReader(strings.Repeat("x", 32)))
	req.ContentLength = -1
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://www.google.com/recaptcha/")
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestObservability_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(ObservabilityMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusTeapot, "short and stout") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?formToken=secret&ref=ad", http.NoBody))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}

func TestSanitizedQuery(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?formToken=secret&email=a@b.co&ref=ad", http.NoBody)

	assert.Equal(t, map[string]string{"ref": "ad"}, sanitizedQuery(c))
}
