package formtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claims")
)

// Token purposes. A token issued for one purpose is rejected for the other.
const (
	PurposeForm    = "form"
	PurposeConfirm = "confirm"
)

// Claims are the JWT claims shared by form and confirmation tokens.
type Claims struct {
	Purpose string `json:"purpose"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and checks the tokens that guard the quote form.
type Manager struct {
	secret     []byte
	issuer     string
	formTTL    time.Duration
	confirmTTL time.Duration
	now        func() time.Time
}

// NewManager creates a Manager. TTLs are in minutes.
func NewManager(secret, issuer string, formTTLMinutes, confirmTTLMinutes int) *Manager {
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		formTTL:    time.Duration(formTTLMinutes) * time.Minute,
		confirmTTL: time.Duration(confirmTTLMinutes) * time.Minute,
		now:        time.Now,
	}
}

// IssueFormToken returns a token embedded in every rendered form.
func (m *Manager) IssueFormToken() (string, error) {
	return m.sign(PurposeForm, "", m.formTTL)
}

// VerifyFormToken checks a token posted back with the form.
func (m *Manager) VerifyFormToken(token string) error {
	_, err := m.parse(token, PurposeForm)
	return err
}

// IssueConfirmation returns a token carrying the e-mail of a successful submission.
func (m *Manager) IssueConfirmation(email string) (string, error) {
	return m.sign(PurposeConfirm, email, m.confirmTTL)
}

// VerifyConfirmation returns the e-mail carried by a confirmation token.
func (m *Manager) VerifyConfirmation(token string) (string, error) {
	claims, err := m.parse(token, PurposeConfirm)
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", ErrInvalidClaim
	}
	return claims.Email, nil
}

// ConfirmationTTL is the lifetime of confirmation tokens, used as the cookie max age.
func (m *Manager) ConfirmationTTL() time.Duration {
	return m.confirmTTL
}

func (m *Manager) sign(purpose, email string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Purpose: purpose,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(tokenString, purpose string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purpose {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}
