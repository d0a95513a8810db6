package gatesdk

import (
	"context"
	"net/http"
	"time"
)

// Session holds a session token. Tokens are not refreshed; once expired the
// student signs in again with LoginExisting.
type Session struct {
	client    *SDKClient
	token     string
	expiresAt time.Time

	// Message is the server's message from the request that created the
	// session, if any.
	Message string
}

// Token returns the raw session JWT.
func (s *Session) Token() string { return s.token }

// ExpiresAt is derived from the cookie Max-Age. Zero when unknown.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Profile returns the profile the session belongs to.
func (s *Session) Profile(ctx context.Context) (*ProfileResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/session", nil, map[string]string{
		"Authorization": "Bearer " + s.token,
	})
	if err != nil {
		return nil, err
	}

	var out ProfileResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout asks the server to clear the cookie. The token itself stays valid
// until it expires, so the Session drops it too.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/logout", nil, nil)
	if err != nil {
		return err
	}
	if err := decodeJSON(resp, nil, http.StatusOK); err != nil {
		return err
	}
	s.token = ""
	return nil
}
