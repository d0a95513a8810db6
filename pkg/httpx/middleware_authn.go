package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/cohortgate/pkg/jwtx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
)

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])
	return raw, raw != ""
}

// TokenFromRequest looks for a bearer token first, then for a cookie named
// cookieName. An empty cookieName disables the cookie lookup.
func TokenFromRequest(r *http.Request, cookieName string) (string, bool) {
	if raw, ok := BearerToken(r); ok {
		return raw, true
	}
	if cookieName == "" {
		return "", false
	}
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// AuthnMiddleware verifies the request token with v and stores the claims in
// the request context. Failures get a 401 with {"error":"unauthorized"}; the
// cause is only logged.
func AuthnMiddleware(v jwtx.Verifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := TokenFromRequest(r, cookieName)
			if !ok {
				writeBearerError(w, "missing token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(ctx, claims)))
		})
	}
}

// RFC 6750-compliant challenge with a JSON body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized")
}
