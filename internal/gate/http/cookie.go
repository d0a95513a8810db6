package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

var DefaultCookie = CookieConfig{
	Name:   gatesdk.SessionCookieName,
	Secure: true,
}

// setSessionCookie stores token with a Max-Age matching its lifetime.
func (c CookieConfig) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie emits Max-Age=0 so the browser drops the cookie.
func (c CookieConfig) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
