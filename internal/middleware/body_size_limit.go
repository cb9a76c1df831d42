package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// QuoteBodyLimit caps quote submissions: a 10 MiB attachment plus the text fields and
// multipart framing.
const QuoteBodyLimit = 11 << 20

// BodySizeLimitMiddleware limits the size of request bodies. Reads past the limit fail
// with *http.MaxBytesError and the handler decides how to answer, so an oversized
// upload can still be reported in the page that posted it.
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	}
}
