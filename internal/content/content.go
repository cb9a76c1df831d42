package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var embedded []byte

// ErrInvalidContent is returned when a content document is incomplete.
var ErrInvalidContent = errors.New("invalid content document")

type Brand struct {
	Name          string `yaml:"name"`
	LegalName     string `yaml:"legal_name"`
	Suffix        string `yaml:"suffix"`
	Tagline       string `yaml:"tagline"`
	Certification string `yaml:"certification"`
}

type Hero struct {
	Badge          string `yaml:"badge"`
	Headline       string `yaml:"headline"`
	HeadlineAccent string `yaml:"headline_accent"`
	Subheadline    string `yaml:"subheadline"`
	CTA            string `yaml:"cta"`
	TermsBadge     string `yaml:"terms_badge"`
}

type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type WhyUs struct {
	Title    string    `yaml:"title"`
	Subtitle string    `yaml:"subtitle"`
	Features []Feature `yaml:"features"`
}

type Step struct {
	Number      int    `yaml:"number"`
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Process struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Steps    []Step `yaml:"steps"`
	Note     string `yaml:"note"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type About struct {
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
	Stats      []Stat   `yaml:"stats"`
}

// QuoteCopy holds the static text around the quote form.
type QuoteCopy struct {
	Title           string `yaml:"title"`
	Subtitle        string `yaml:"subtitle"`
	UploadLabel     string `yaml:"upload_label"`
	UploadPrompt    string `yaml:"upload_prompt"`
	UploadHint      string `yaml:"upload_hint"`
	UploadTip       string `yaml:"upload_tip"`
	SubmitLabel     string `yaml:"submit_label"`
	SubmittingLabel string `yaml:"submitting_label"`
	SuccessTitle    string `yaml:"success_title"`
	SuccessText     string `yaml:"success_text"`
	ResetLabel      string `yaml:"reset_label"`
}

type Footer struct {
	ContactEmail string `yaml:"contact_email"`
	Rights       string `yaml:"rights"`
}

// Site is the full marketing copy of the page.
type Site struct {
	Brand   Brand     `yaml:"brand"`
	Hero    Hero      `yaml:"hero"`
	WhyUs   WhyUs     `yaml:"why_us"`
	Process Process   `yaml:"process"`
	About   About     `yaml:"about"`
	Quote   QuoteCopy `yaml:"quote"`
	Footer  Footer    `yaml:"footer"`
}

// Copyright renders the footer copyright line for the given moment.
func (s *Site) Copyright(now time.Time) string {
	return fmt.Sprintf("© %d %s. %s", now.Year(), s.Brand.LegalName, s.Footer.Rights)
}

// Load parses the copy compiled into the binary.
func Load() (*Site, error) {
	return Parse(embedded)
}

// LoadFile parses a copy document from disk.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a copy document. Unknown keys are rejected.
func Parse(data []byte) (*Site, error) {
	var site Site
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}

	if err := site.validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) validate() error {
	required := map[string]string{
		"brand.name":           s.Brand.Name,
		"brand.legal_name":     s.Brand.LegalName,
		"hero.headline":        s.Hero.Headline,
		"hero.cta":             s.Hero.CTA,
		"why_us.title":         s.WhyUs.Title,
		"process.title":        s.Process.Title,
		"about.title":          s.About.Title,
		"quote.title":          s.Quote.Title,
		"quote.submit_label":   s.Quote.SubmitLabel,
		"quote.success_title":  s.Quote.SuccessTitle,
		"quote.reset_label":    s.Quote.ResetLabel,
		"footer.contact_email": s.Footer.ContactEmail,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidContent, key)
		}
	}

	if len(s.WhyUs.Features) == 0 {
		return fmt.Errorf("%w: why_us.features is empty", ErrInvalidContent)
	}
	if len(s.Process.Steps) == 0 {
		return fmt.Errorf("%w: process.steps is empty", ErrInvalidContent)
	}
	for i, step := range s.Process.Steps {
		if step.Number != i+1 {
			return fmt.Errorf("%w: process step %q is numbered %d, want %d", ErrInvalidContent, step.Title, step.Number, i+1)
		}
	}
	if len(s.About.Paragraphs) == 0 {
		return fmt.Errorf("%w: about.paragraphs is empty", ErrInvalidContent)
	}

	return nil
}
