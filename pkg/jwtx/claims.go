package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes and fixed claim values for the two token types.
const (
	// DefaultTempTokenTTL bounds the window between passing the team
	// passphrase and setting a personal secret.
	DefaultTempTokenTTL = 5 * time.Minute

	// DefaultSessionTokenTTL is the lifetime of a session token and of the
	// cookie that carries it.
	DefaultSessionTokenTTL = 7 * 24 * time.Hour

	// AudienceAuthenticated is the "aud" value expected by the downstream
	// data platform.
	AudienceAuthenticated = "authenticated"

	TypeTempAuth = "temp_auth"
	TypeSession  = "session"
)

// Claims carried by both token types. The "type" claim is what keeps a temp
// token from being accepted where a session token is required and vice
// versa, on top of the two contexts using different keys.
type Claims struct {
	jwt.RegisteredClaims

	// Audience shadows the embedded claim so "aud" is serialized as a single
	// string instead of an array.
	Audience string `json:"aud,omitempty"`

	// Type is either TypeTempAuth or TypeSession.
	Type string `json:"type"`
}

// GetAudience implements jwt.Claims for the single-string audience.
func (c Claims) GetAudience() (jwt.ClaimStrings, error) {
	if c.Audience == "" {
		return nil, nil
	}
	return jwt.ClaimStrings{c.Audience}, nil
}

// NewClaims builds claims for subject valid from now for ttl.
func NewClaims(subject, audience, typ string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Audience: audience,
		Type:     typ,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateAudience checks the audience matches expected exactly.
func (c *Claims) ValidateAudience(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Audience != expected {
		return ErrAudience
	}
	return nil
}

// ValidateType checks the "type" claim.
func (c *Claims) ValidateType(expected string) error {
	if c.Type != expected {
		return ErrTokenType
	}
	return nil
}

// ValidateExpiryAt ensures the token has an expiry and that now is before it.
// A token is expired at the exact second of its exp claim.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateSubject ensures the token names a subject.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}
	return nil
}
