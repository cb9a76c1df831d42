package handlers

import (
	"net/http"
	"time"

	"github.com/5280sourcegroup/website/internal/content"
	"github.com/5280sourcegroup/website/internal/quoteform"
	"github.com/5280sourcegroup/website/internal/web"
	"github.com/5280sourcegroup/website/pkg/formtoken"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfirmationCookie carries the signed confirmation of the last submission.
const ConfirmationCookie = "quote_confirmation"

// SubmittedCookie marks the first page view after a successful submission, which is
// the only one that shows the success notification.
const SubmittedCookie = "quote_submitted"

const submittedCookieMaxAge = 60

// PageOptions configures page rendering.
type PageOptions struct {
	RecaptchaSiteKey string
	CookieSecure     bool
}

// PageHandler renders the landing page.
type PageHandler struct {
	site   *content.Site
	tokens *formtoken.Manager
	opts   PageOptions
	now    func() time.Time
}

func NewPageHandler(site *content.Site, tokens *formtoken.Manager, opts PageOptions) *PageHandler {
	return &PageHandler{
		site:   site,
		tokens: tokens,
		opts:   opts,
		now:    time.Now,
	}
}

// Index renders the page. A valid confirmation cookie shows the confirmation view
// instead of the form.
func (h *PageHandler) Index(c *gin.Context) {
	metrics.PageViews.Inc()

	form := quoteform.New()
	if email, ok := h.confirmedEmail(c); ok {
		form = quoteform.Submitted(email)
		if h.takeSubmittedFlag(c) {
			form.AnnounceSuccess()
		}
	}
	h.render(c, http.StatusOK, form)
}

// render writes the full page for form with a fresh form token.
func (h *PageHandler) render(c *gin.Context, status int, form *quoteform.Form) {
	page := web.NewPage(h.site, form, h.now())
	page.RecaptchaSiteKey = h.opts.RecaptchaSiteKey

	if !form.IsSubmitted() {
		token, err := h.tokens.IssueFormToken()
		if err != nil {
			// The form still renders; a required token will fail on submit
			logger.Error("Failed to issue form token", zap.Error(err))
			attachError(c, err)
		}
		page.FormToken = token
	}

	c.HTML(status, web.PageTemplate, page)
}

func (h *PageHandler) confirmedEmail(c *gin.Context) (string, bool) {
	token, err := c.Cookie(ConfirmationCookie)
	if err != nil || token == "" {
		return "", false
	}
	email, err := h.tokens.VerifyConfirmation(token)
	if err != nil {
		h.clearConfirmation(c)
		return "", false
	}
	return email, true
}

func (h *PageHandler) setConfirmation(c *gin.Context, email string) error {
	token, err := h.tokens.IssueConfirmation(email)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ConfirmationCookie, token, int(h.tokens.ConfirmationTTL().Seconds()), "/", "", h.opts.CookieSecure, true)
	c.SetCookie(SubmittedCookie, "1", submittedCookieMaxAge, "/", "", h.opts.CookieSecure, true)
	return nil
}

// takeSubmittedFlag reports whether the flash cookie is present and clears it.
func (h *PageHandler) takeSubmittedFlag(c *gin.Context) bool {
	if v, err := c.Cookie(SubmittedCookie); err != nil || v == "" {
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SubmittedCookie, "", -1, "/", "", h.opts.CookieSecure, true)
	return true
}

func (h *PageHandler) clearConfirmation(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ConfirmationCookie, "", -1, "/", "", h.opts.CookieSecure, true)
	c.SetCookie(SubmittedCookie, "", -1, "/", "", h.opts.CookieSecure, true)
}
