package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	PepperFile      string `env:"GATE_PEPPER_FILE" envDefault:"pepper"`
	CORSAllowOrigin string `env:"GATE_CORS_ALLOW_ORIGIN" envDefault:"*"`

	// TrustedProxies are addresses or CIDRs of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []string `env:"GATE_TRUSTED_PROXIES" envSeparator:","`

	Store  StoreConfig  `envPrefix:"GATE_STORE_"`
	Tokens TokenConfig  `envPrefix:"GATE_"`
	Cookie CookieConfig `envPrefix:"GATE_COOKIE_"`
	Redis  RedisConfig  `envPrefix:"GATE_REDIS_"`
}

type StoreConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	SQLiteFile  string `env:"SQLITE_FILE" envDefault:"gate.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// TokenConfig holds the raw HMAC secrets. They are unset from the
// environment once read.
type TokenConfig struct {
	TempSecret    string        `env:"TEMP_TOKEN_SECRET,unset"`
	SessionSecret string        `env:"SESSION_TOKEN_SECRET,unset"`
	TempTTL       time.Duration `env:"TEMP_TOKEN_TTL" envDefault:"5m"`
	SessionTTL    time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"168h"`
	Audience      string        `env:"TOKEN_AUDIENCE" envDefault:"authenticated"`
}

type CookieConfig struct {
	Name   string `env:"NAME" envDefault:"sb-access-token"`
	Secure bool   `env:"SECURE" envDefault:"true"`
}

// RedisConfig enables the temp token replay guard when Addr is set.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD,unset"`
	DB       int    `env:"DB" envDefault:"0"`
}

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDev() bool { return c.Env == "dev" }

func (c Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLiteFile == "" {
			errs = append(errs, errors.New("GATE_STORE_SQLITE_FILE must not be empty"))
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("GATE_STORE_POSTGRES_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("GATE_STORE_DRIVER %q is not one of sqlite, postgres", c.Store.Driver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.Tokens.TempTTL <= 0 || c.Tokens.SessionTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Cookie.Name == "" {
		errs = append(errs, errors.New("GATE_COOKIE_NAME must not be empty"))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("GATE_TRUSTED_PROXIES: %w", err))
	}

	return errors.Join(errs...)
}
