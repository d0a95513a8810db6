package gatesdk

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNoSessionCookie means a 200 response carried no session cookie.
var ErrNoSessionCookie = errors.New("gate: response did not set the session cookie")

// AuthGate exchanges a name and the team passphrase for a temp token.
func (c *SDKClient) AuthGate(ctx context.Context, name, passphrase string) (*AuthGateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth-gate", AuthGateRequest{Name: name, Passphrase: passphrase}, nil)
	if err != nil {
		return nil, err
	}

	var out AuthGateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetPersonalSecret stores a PIN or password for the temp token's profile
// and returns the resulting session.
func (c *SDKClient) SetPersonalSecret(ctx context.Context, tempToken string, req SetPersonalSecretRequest) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/set-personal-secret", req, map[string]string{
		"Authorization": "Bearer " + tempToken,
	})
	if err != nil {
		return nil, err
	}
	return c.sessionFromResponse(resp)
}

// LoginExisting signs in with a name and the personal secret set earlier.
func (c *SDKClient) LoginExisting(ctx context.Context, name, secret string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/login-existing", LoginExistingRequest{Name: name, Secret: secret}, nil)
	if err != nil {
		return nil, err
	}
	return c.sessionFromResponse(resp)
}

func (c *SDKClient) sessionFromResponse(resp *http.Response) (*Session, error) {
	cookies := resp.Cookies()

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}

	for _, ck := range cookies {
		if ck.Name != SessionCookieName || ck.Value == "" {
			continue
		}
		s := &Session{client: c, token: ck.Value, Message: msg.Message}
		if ck.MaxAge > 0 {
			s.expiresAt = time.Now().Add(time.Duration(ck.MaxAge) * time.Second)
		}
		return s, nil
	}
	return nil, ErrNoSessionCookie
}
