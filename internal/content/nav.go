package content

import (
	"errors"
	"fmt"
)

// ScrollThreshold is the vertical offset, in pixels, at which the header switches to
// its scrolled style.
const ScrollThreshold = 50

// Anchor ids exposed by the page.
const (
	AnchorWhyUs     = "why-us"
	AnchorProcess   = "process"
	AnchorAbout     = "about"
	AnchorQuoteForm = "quote-form"
)

// ErrUnknownTarget is returned when navigating to an anchor the page does not have.
var ErrUnknownTarget = errors.New("unknown navigation target")

// NavLink is one header navigation entry.
type NavLink struct {
	Label  string
	Target string
	CTA    bool
}

// Href is the in-page link for the entry.
func (l NavLink) Href() string {
	return "#" + l.Target
}

// NavLinks lists the header entries in display order. The quote form entry is rendered
// as the call to action.
var NavLinks = []NavLink{
	{Label: "Why Us", Target: AnchorWhyUs},
	{Label: "How It Works", Target: AnchorProcess},
	{Label: "About", Target: AnchorAbout},
	{Label: "Request Quote", Target: AnchorQuoteForm, CTA: true},
}

// Header is the navigation bar state.
type Header struct {
	IsScrolled bool
	IsMenuOpen bool
}

// OnScroll updates the style mode for the given vertical offset.
func (h *Header) OnScroll(offsetY float64) {
	h.IsScrolled = offsetY >= ScrollThreshold
}

func (h *Header) ToggleMenu() {
	h.IsMenuOpen = !h.IsMenuOpen
}

// NavigateTo returns the anchor id for target. The mobile menu is closed on every call,
// including one with an unknown target.
func (h *Header) NavigateTo(target string) (string, error) {
	h.IsMenuOpen = false
	for _, link := range NavLinks {
		if link.Target == target {
			return link.Target, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
}

// Anchors returns every navigation target id.
func Anchors() []string {
	ids := make([]string, 0, len(NavLinks))
	for _, link := range NavLinks {
		ids = append(ids, link.Target)
	}
	return ids
}
