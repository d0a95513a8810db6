package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"

	_ "github.com/aussiebroadwan/cohortgate/api/gate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is implemented by optional dependencies that readyz should probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	GateService *service.GateService
	Cookie      CookieConfig
	CORS        httpx.CORSConfig

	// Replay is probed by readyz when set.
	Replay Pinger

	// StrictLimit guards the three protocol endpoints, LenientLimit the
	// rest. Both default to the httpx profiles.
	StrictLimit  httpx.RateLimitConfig
	LenientLimit httpx.RateLimitConfig

	// TrustedProxies may report the client address in forwarding headers.
	// Empty means rate limits key on the direct peer.
	TrustedProxies httpx.TrustedProxies
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		Cookie:       DefaultCookie,
		CORS:         httpx.DefaultCORS,
		StrictLimit:  httpx.StrictLimit,
		LenientLimit: httpx.LenientLimit,
	}
}

func (r *Router) ApplyRoutes() {
	// CORS runs inside the logger so preflights show up in the request log.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(r.CORS),
	}

	r.registerGate()
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Cohort Gate API
//	@version					0.1.0
//	@description				Name and passphrase sign-in for a single active training cohort.
//	@description
//	@description				A student trades the shared team passphrase for a five minute temp token,
//	@description				sets a personal PIN or password with it, and receives a seven day session
//	@description				token in the sb-access-token cookie. Later visits go straight to /login-existing.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/cohortgate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Temp or session JWT. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerGate() {
	// All three take a shared or personal secret, so they share the strict
	// per-IP budget.
	r.Mux.Handle("POST /auth-gate",
		httpx.Chain(&AuthGateHandler{GateService: r.GateService},
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies),
		),
	)
	r.Mux.Handle("POST /set-personal-secret",
		httpx.Chain(&SetPersonalSecretHandler{GateService: r.GateService, Cookie: r.Cookie},
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies),
		),
	)
	r.Mux.Handle("POST /login-existing",
		httpx.Chain(&LoginExistingHandler{GateService: r.GateService, Cookie: r.Cookie},
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies),
		),
	)
}

func (r *Router) registerSession() {
	r.Mux.Handle("GET /session",
		httpx.Chain(&SessionHandler{GateService: r.GateService},
			httpx.AuthnMiddleware(r.GateService.Tokens.SessionVerifier(), r.Cookie.Name),
			httpx.RateLimitBySubject(r.LenientLimit, r.TrustedProxies),
		),
	)
	r.Mux.Handle("POST /logout",
		httpx.Chain(LogoutHandler(r.Cookie),
			httpx.RateLimitByIP(r.LenientLimit, r.TrustedProxies),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.LenientLimit, r.TrustedProxies),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.GateService.Tokens, r.Replay),
			httpx.RateLimitByIP(r.LenientLimit, r.TrustedProxies),
		),
	)
}
