package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// redactedQueryParams never reach the request log.
var redactedQueryParams = map[string]bool{
	"formtoken": true, "token": true, "g-recaptcha-response": true,
	"secret": true, "key": true, "email": true,
}

// ObservabilityMiddleware records request metrics and writes one log line per request
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Route template, not the raw path, keeps label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusStr).Inc()

		fields := []zap.Field{
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}

		if status >= 400 {
			if query := sanitizedQuery(c); len(query) > 0 {
				fields = append(fields, zap.Any("query_params", query))
			}
			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("error", c.Errors.String()))
			}
		}

		logger.LogHTTPRequest(method, c.Request.URL.Path, status, duration, fields...)
	}
}

func sanitizedQuery(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	out := make(map[string]string, len(query))
	for k, v := range query {
		if !redactedQueryParams[strings.ToLower(k)] && len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
