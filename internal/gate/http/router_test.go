package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store/drivers/sqlite"
	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const teamPassphrase = "analytical-engine"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "gate-http")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var generous = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

type harness struct {
	router *Router
	gate   *service.GateService
}

func newHarness(t *testing.T, opts ...func(*Router)) *harness {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "gate.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := service.NewTokenService(service.TokenConfig{
		TempKey:    []byte("temp-token-key-for-tests-0123456789"),
		SessionKey: []byte("session-token-key-for-tests-0123456"),
	})
	require.NoError(t, err)

	cohorts := &service.CohortService{Store: st}
	_, err = cohorts.CreateCohort(ctx, "Spring", teamPassphrase, true)
	require.NoError(t, err)

	gate := &service.GateService{
		Store:      st,
		Cohorts:    cohorts,
		Identities: &service.IdentityService{Store: st},
		Tokens:     tokens,
	}

	r := NewRouter("test", st, slogx.Discard())
	r.GateService = gate
	r.StrictLimit = generous
	r.LenientLimit = generous
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	return &harness{router: r, gate: gate}
}

func (h *harness) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == gatesdk.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in %v", gatesdk.SessionCookieName, rec.Header().Values("Set-Cookie"))
	return nil
}

func TestGateFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "Ada Lovelace", Passphrase: teamPassphrase})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Empty(t, rec.Result().Cookies(), "the auth gate never sets a cookie")
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	gate := decode[gatesdk.AuthGateResponse](t, rec)
	require.Equal(t, "ok", gate.Status)
	require.Equal(t, gatesdk.ModeNew, gate.Mode)
	require.NotEmpty(t, gate.TempToken)

	rec = h.do(t, http.MethodPost, "/set-personal-secret", gatesdk.SetPersonalSecretRequest{PIN: "1815"},
		"Authorization", "Bearer "+gate.TempToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "ok", decode[gatesdk.MessageResponse](t, rec).Message)

	c := sessionCookie(t, rec)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 604800, c.MaxAge)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)

	rec = h.do(t, http.MethodPost, "/login-existing", gatesdk.LoginExistingRequest{Name: "ada lovelace", Secret: "1815"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "login successful", decode[gatesdk.MessageResponse](t, rec).Message)
	login := sessionCookie(t, rec)

	first, err := h.gate.Tokens.VerifySession(c.Value)
	require.NoError(t, err)
	second, err := h.gate.Tokens.VerifySession(login.Value)
	require.NoError(t, err)
	require.Equal(t, first.Subject, second.Subject)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(login)
	rec = httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	profile := decode[gatesdk.ProfileResponse](t, rec)
	require.Equal(t, first.Subject, profile.ID)
	require.Equal(t, "Ada Lovelace", profile.DisplayName)
	require.Equal(t, "ada-lovelace", profile.NameSlug)
	require.Equal(t, "student", profile.Role)
	require.Equal(t, "name_passphrase", profile.AuthType)
	require.True(t, profile.HasSecret)

	rec = h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "ADA LOVELACE", Passphrase: teamPassphrase})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, gatesdk.ModeReturning, decode[gatesdk.AuthGateResponse](t, rec).Mode)
}

func TestAuthGate_Errors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantMsg  string
	}{
		{"wrong passphrase", gatesdk.AuthGateRequest{Name: "Ada", Passphrase: "nope"}, http.StatusUnauthorized, "unauthorized"},
		{"missing name", gatesdk.AuthGateRequest{Passphrase: teamPassphrase}, http.StatusBadRequest, "name and passphrase are required"},
		{"blank passphrase", gatesdk.AuthGateRequest{Name: "Ada", Passphrase: "  "}, http.StatusBadRequest, "name and passphrase are required"},
		{"malformed json", `{"name":`, http.StatusBadRequest, gatesdk.MessageInvalidBody},
		{"empty body", "", http.StatusBadRequest, gatesdk.MessageInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/auth-gate", tt.body)
			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, tt.wantMsg, decode[gatesdk.APIError](t, rec).Message)
		})
	}
}

func TestAuthGate_NoActiveCohortIs500(t *testing.T) {
	h := newHarness(t)
	h.gate.Cohorts = &service.CohortService{Store: emptyStore(t)}

	rec := h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "Ada", Passphrase: teamPassphrase})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, gatesdk.MessageServerError, decode[gatesdk.APIError](t, rec).Message)

	rec = h.do(t, http.MethodPost, "/login-existing", gatesdk.LoginExistingRequest{Name: "Ada", Secret: "1815"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func emptyStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "empty.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestSetPersonalSecret_Errors(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "Ada", Passphrase: teamPassphrase})
	require.Equal(t, http.StatusOK, rec.Code)
	temp := decode[gatesdk.AuthGateResponse](t, rec).TempToken

	session, _, err := h.gate.Tokens.IssueSession("someone")
	require.NoError(t, err)

	tests := []struct {
		name     string
		auth     string
		body     any
		wantCode int
		wantMsg  string
	}{
		{"no token", "", gatesdk.SetPersonalSecretRequest{PIN: "1815"}, http.StatusUnauthorized, "unauthorized"},
		{"garbage token", "Bearer nope", gatesdk.SetPersonalSecretRequest{PIN: "1815"}, http.StatusUnauthorized, "unauthorized"},
		{"session token", "Bearer " + session, gatesdk.SetPersonalSecretRequest{PIN: "1815"}, http.StatusUnauthorized, "unauthorized"},
		{"bad token beats bad body", "Bearer nope", `{`, http.StatusUnauthorized, "unauthorized"},
		{"no secret", "Bearer " + temp, gatesdk.SetPersonalSecretRequest{}, http.StatusBadRequest, "pin or password is required"},
		{"malformed body", "Bearer " + temp, `{"pin":`, http.StatusBadRequest, "pin or password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.auth != "" {
				headers = []string{"Authorization", tt.auth}
			}
			rec := h.do(t, http.MethodPost, "/set-personal-secret", tt.body, headers...)
			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, tt.wantMsg, decode[gatesdk.APIError](t, rec).Message)
			require.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLoginExisting_UniformRejection(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "Provisioned Only", Passphrase: teamPassphrase})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "Ada", Passphrase: teamPassphrase})
	require.Equal(t, http.StatusOK, rec.Code)
	temp := decode[gatesdk.AuthGateResponse](t, rec).TempToken
	rec = h.do(t, http.MethodPost, "/set-personal-secret", gatesdk.SetPersonalSecretRequest{Password: "bernoulli"},
		"Authorization", "Bearer "+temp)
	require.Equal(t, http.StatusOK, rec.Code)

	for name, body := range map[string]gatesdk.LoginExistingRequest{
		"unknown name":  {Name: "Nobody", Secret: "bernoulli"},
		"no secret set": {Name: "Provisioned Only", Secret: "bernoulli"},
		"wrong secret":  {Name: "Ada", Secret: "wrong"},
		"empty secret":  {Name: "Ada"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/login-existing", body)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "invalid name or secret", decode[gatesdk.APIError](t, rec).Message)
			require.Empty(t, rec.Result().Cookies())
		})
	}

	rec = h.do(t, http.MethodPost, "/login-existing", gatesdk.LoginExistingRequest{Name: " ", Secret: "bernoulli"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSession(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decode[gatesdk.APIError](t, rec).Message)

	rec = h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "Ada", Passphrase: teamPassphrase})
	temp := decode[gatesdk.AuthGateResponse](t, rec).TempToken

	rec = h.do(t, http.MethodGet, "/session", nil, "Authorization", "Bearer "+temp)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "temp tokens do not open a session")

	ghost, _, err := h.gate.Tokens.IssueSession("no-such-profile")
	require.NoError(t, err)
	rec = h.do(t, http.MethodGet, "/session", nil, "Authorization", "Bearer "+ghost)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	raw := rec.Header().Get("Set-Cookie")
	require.True(t, strings.HasPrefix(raw, gatesdk.SessionCookieName+"=;"), raw)
	require.Contains(t, raw, "Max-Age=0")
}

func TestCookieSecureConfigurable(t *testing.T) {
	h := newHarness(t, func(r *Router) { r.Cookie.Secure = false })

	rec := h.do(t, http.MethodPost, "/auth-gate", gatesdk.AuthGateRequest{Name: "Ada", Passphrase: teamPassphrase})
	temp := decode[gatesdk.AuthGateResponse](t, rec).TempToken
	rec = h.do(t, http.MethodPost, "/set-personal-secret", gatesdk.SetPersonalSecretRequest{PIN: "1"},
		"Authorization", "Bearer "+temp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, sessionCookie(t, rec).Secure)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/auth-gate", "/set-personal-secret", "/anything"} {
		rec := h.do(t, http.MethodOptions, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Empty(t, rec.Body.String())
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, func(r *Router) {
		r.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	})

	body := gatesdk.AuthGateRequest{Name: "Ada", Passphrase: "guess"}
	require.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/auth-gate", body).Code)
	require.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/auth-gate", body).Code)

	rec := h.do(t, http.MethodPost, "/auth-gate", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_ForwardedHeaders(t *testing.T) {
	strict := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	body := gatesdk.LoginExistingRequest{Name: "Ada", Secret: "0000"}

	t.Run("ignored from an untrusted peer", func(t *testing.T) {
		h := newHarness(t, func(r *Router) { r.StrictLimit = strict })

		rec := h.do(t, http.MethodPost, "/login-existing", body, "X-Forwarded-For", "198.51.100.1")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		for _, spoofed := range []string{"198.51.100.2", "198.51.100.3"} {
			rec := h.do(t, http.MethodPost, "/login-existing", body,
				"X-Forwarded-For", spoofed, "X-Real-IP", spoofed)
			require.Equal(t, http.StatusTooManyRequests, rec.Code, spoofed)
		}
	})

	t.Run("honoured from a trusted proxy", func(t *testing.T) {
		h := newHarness(t, func(r *Router) {
			r.StrictLimit = strict
			// httptest requests come from 192.0.2.1.
			r.TrustedProxies = httpx.TrustedProxies{netip.MustParsePrefix("192.0.2.0/24")}
		})

		for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
			rec := h.do(t, http.MethodPost, "/login-existing", body, "X-Forwarded-For", client)
			require.Equal(t, http.StatusUnauthorized, rec.Code, client)
		}

		// A client-prepended hop does not change the key the proxy appended.
		rec := h.do(t, http.MethodPost, "/login-existing", body, "X-Forwarded-For", "203.0.113.9, 198.51.100.1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", decode[gatesdk.HealthResponse](t, rec).Version)

	rec = h.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[gatesdk.HealthResponse](t, rec)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Tokens)
	require.Empty(t, ready.Checks.Replay)

	down := newHarness(t, func(r *Router) { r.Replay = pinger{err: errors.New("connection refused")} })
	rec = down.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "error: connection refused", decode[gatesdk.HealthResponse](t, rec).Checks.Replay)
}
