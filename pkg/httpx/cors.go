package httpx

import (
	"net/http"
	"strings"
)

// CORSConfig controls the headers CORSMiddleware adds to every response.
type CORSConfig struct {
	AllowOrigin  string
	AllowHeaders []string
	AllowMethods []string
}

// DefaultCORS allows any origin to call the gate from a browser.
var DefaultCORS = CORSConfig{
	AllowOrigin:  "*",
	AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
}

// CORSMiddleware adds the CORS headers to every response and answers any
// OPTIONS request with an empty 200 without calling next.
func CORSMiddleware(cfg CORSConfig) Middleware {
	origin := cfg.AllowOrigin
	if origin == "" {
		origin = DefaultCORS.AllowOrigin
	}
	headers := strings.Join(cfg.AllowHeaders, ", ")
	methods := strings.Join(cfg.AllowMethods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if origin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
