package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/5280sourcegroup/website/pkg/httpclient"
	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"go.uber.org/zap"
)

// VerifyURL is Google's siteverify endpoint.
const VerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var (
	// ErrMissingToken is returned when the form carried no captcha response.
	ErrMissingToken = errors.New("recaptcha token is missing")

	// ErrVerificationFailed is returned when Google rejects the token.
	ErrVerificationFailed = errors.New("recaptcha verification failed")
)

// Response represents the response from Google's reCAPTCHA verification API
type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier handles reCAPTCHA verification
type Verifier struct {
	secretKey  string
	endpoint   string
	httpClient httpclient.Client
}

// NewVerifier creates a new reCAPTCHA verifier
func NewVerifier(secretKey string, httpClient httpclient.Client) *Verifier {
	return &Verifier{
		secretKey:  secretKey,
		endpoint:   VerifyURL,
		httpClient: httpClient,
	}
}

// Verify checks a captcha response token. remoteIP is optional.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrMissingToken
	}

	data := url.Values{}
	data.Set("secret", v.secretKey)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	start := time.Now()
	resp, err := httpclient.PostForm(ctx, v.httpClient, v.endpoint, data)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		logger.LogAPICall("recaptcha", "siteverify", "error", duration, zap.Error(err))
		return fmt.Errorf("failed to verify recaptcha: %w", err)
	}
	defer httpclient.Drain(resp)

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.LogAPICall("recaptcha", "siteverify", "error", duration, zap.Error(err))
		return fmt.Errorf("failed to decode recaptcha response: %w", err)
	}

	if !result.Success {
		logger.LogAPICall("recaptcha", "siteverify", "rejected", duration,
			zap.Strings("error_codes", result.ErrorCodes))
		return ErrVerificationFailed
	}

	logger.LogAPICall("recaptcha", "siteverify", "success", duration)
	return nil
}
