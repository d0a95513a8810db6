package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/cohortgate/internal/gate/http"
	"github.com/aussiebroadwan/cohortgate/internal/gate/replay"
	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the gate service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          store.Store
	redisClient *redis.Client
	replayGuard *replay.Redis

	tokenService *service.TokenService
	gateService  *service.GateService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "cohort-gate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	ctx := context.Background()

	db, err := OpenStore(ctx, cfg.Store, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := app.initReplay(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeDeps()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		app.closeDeps()
		return nil, err
	}

	return app, nil
}

// initReplay connects to redis when configured. Without it temp tokens can
// be reused until they expire.
func (app *Application) initReplay(ctx context.Context) error {
	if app.cfg.Redis.Addr == "" {
		app.logger.Info("replay guard disabled, temp tokens are reusable until expiry")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.cfg.Redis.Addr,
		Password: app.cfg.Redis.Password,
		DB:       app.cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", app.cfg.Redis.Addr, err)
	}

	app.redisClient = client
	app.replayGuard = replay.NewRedis(client)
	app.logger.Info("replay guard enabled", "redis_addr", app.cfg.Redis.Addr)
	return nil
}

func (app *Application) initServices() error {
	tempKey, sessionKey, err := LoadTokenKeys(app.cfg, app.logger)
	if err != nil {
		return err
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		TempKey:    tempKey,
		SessionKey: sessionKey,
		Audience:   app.cfg.Tokens.Audience,
		TempTTL:    app.cfg.Tokens.TempTTL,
		SessionTTL: app.cfg.Tokens.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token keys: %w", err)
	}
	app.tokenService = tokens

	app.gateService = &service.GateService{
		Store:      app.db,
		Cohorts:    &service.CohortService{Store: app.db},
		Identities: &service.IdentityService{Store: app.db},
		Tokens:     tokens,
	}
	if app.replayGuard != nil {
		app.gateService.Replay = app.replayGuard
	}
	return nil
}

func (app *Application) initHTTP() error {
	trusted, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.TrustedProxies = trusted
	router.GateService = app.gateService
	router.Cookie = httpapi.CookieConfig{
		Name:   app.cfg.Cookie.Name,
		Secure: app.cfg.Cookie.Secure,
	}
	router.CORS = httpx.DefaultCORS
	router.CORS.AllowOrigin = app.cfg.CORSAllowOrigin
	if app.replayGuard != nil {
		router.Replay = app.replayGuard
	}
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// Handler exposes the router for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("cohort gate starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeDeps()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down cohort gate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeDeps(); err != nil {
		return err
	}

	app.logger.Info("cohort gate stopped")
	return nil
}

func (app *Application) closeDeps() error {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}
