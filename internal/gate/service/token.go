package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aussiebroadwan/cohortgate/pkg/jwtx"
)

// TokenConfig holds the key material and lifetimes for both token contexts.
// Keys are copied on construction and never change afterwards.
type TokenConfig struct {
	TempKey    []byte
	SessionKey []byte
	Audience   string
	TempTTL    time.Duration
	SessionTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// TokenService issues and verifies the two token types. Each type has its
// own key and its own "type" claim; neither verifier accepts the other's
// tokens.
type TokenService struct {
	tempSigner      *jwtx.HS256Signer
	sessionSigner   *jwtx.HS256Signer
	tempVerifier    *jwtx.HS256Verifier
	sessionVerifier *jwtx.HS256Verifier

	audience   string
	tempTTL    time.Duration
	sessionTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Audience == "" {
		cfg.Audience = jwtx.AudienceAuthenticated
	}
	if cfg.TempTTL <= 0 {
		cfg.TempTTL = jwtx.DefaultTempTokenTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = jwtx.DefaultSessionTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	tempSigner, err := jwtx.NewSignerHS256(cfg.TempKey)
	if err != nil {
		return nil, fmt.Errorf("temp token key: %w", err)
	}
	sessionSigner, err := jwtx.NewSignerHS256(cfg.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("session token key: %w", err)
	}
	if bytes.Equal(cfg.TempKey, cfg.SessionKey) {
		return nil, ErrSameTokenKeys
	}

	tempVerifier, err := jwtx.NewVerifierHS256(cfg.TempKey, cfg.Audience, jwtx.TypeTempAuth)
	if err != nil {
		return nil, fmt.Errorf("temp token key: %w", err)
	}
	sessionVerifier, err := jwtx.NewVerifierHS256(cfg.SessionKey, cfg.Audience, jwtx.TypeSession)
	if err != nil {
		return nil, fmt.Errorf("session token key: %w", err)
	}

	return &TokenService{
		tempSigner:      tempSigner,
		sessionSigner:   sessionSigner,
		tempVerifier:    tempVerifier.WithClock(cfg.Now),
		sessionVerifier: sessionVerifier.WithClock(cfg.Now),
		audience:        cfg.Audience,
		tempTTL:         cfg.TempTTL,
		sessionTTL:      cfg.SessionTTL,
		now:             cfg.Now,
	}, nil
}

// SessionTTL is the session token lifetime, which is also the cookie Max-Age.
func (s *TokenService) SessionTTL() time.Duration { return s.sessionTTL }

// SessionVerifier exposes the session context to request middleware.
func (s *TokenService) SessionVerifier() jwtx.Verifier { return s.sessionVerifier }

// IssueTemp signs a temp_auth token for profileID.
func (s *TokenService) IssueTemp(profileID string) (string, error) {
	return s.tempSigner.Sign(jwtx.NewClaims(profileID, s.audience, jwtx.TypeTempAuth, s.tempTTL, s.now()))
}

// IssueSession signs a session token for profileID and returns its expiry.
func (s *TokenService) IssueSession(profileID string) (string, time.Time, error) {
	claims := jwtx.NewClaims(profileID, s.audience, jwtx.TypeSession, s.sessionTTL, s.now())
	token, err := s.sessionSigner.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// VerifyTemp checks signature, expiry, audience and type of a temp token.
// Every failure wraps ErrInvalidToken.
func (s *TokenService) VerifyTemp(token string) (*jwtx.Claims, error) {
	c, err := s.tempVerifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return c, nil
}

// VerifySession is VerifyTemp for session tokens.
func (s *TokenService) VerifySession(token string) (*jwtx.Claims, error) {
	c, err := s.sessionVerifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return c, nil
}
