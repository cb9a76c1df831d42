package handlers

import (
	"errors"
	"net/http"

	"github.com/5280sourcegroup/website/internal/quoteform"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"success": false, "error": message, "details": details})
}

// submitStatus maps a failed submission to a response status. Rejections carry a
// user-facing reason and are the client's to fix.
func submitStatus(err error) int {
	var notice *quoteform.NoticeError
	if errors.As(err, &notice) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// bodyStatus maps a request body that could not be read.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
