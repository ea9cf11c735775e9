// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates every configuration section.  Nested structs are parsed
// with their envPrefix, so Session.Secret comes from SESSION_SECRET and so
// on.  Use Load to build one.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`  // application environment (dev/test/prod)
	Port uint16 `env:"APP_PORT" envDefault:"8080"` // HTTP port to listen on

	API       API       `envPrefix:"API_"`
	Session   Session   `envPrefix:"SESSION_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
	AMQP      AMQP      `envPrefix:"AMQP_"`
	DB        DB        `envPrefix:"DB_"`
	Log       Logger    `envPrefix:"LOG_"`
}

// API points at the Cloud Chaser REST backend.
type API struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Session controls the dashboard session cookie and its server-side
// record.  Secret signs the cookie and is required.
type Session struct {
	Secret       string        `env:"SECRET,required,notEmpty"`
	TTL          time.Duration `env:"TTL" envDefault:"12h"`
	CookieName   string        `env:"COOKIE_NAME" envDefault:"cc_session"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	Prefix       string        `env:"PREFIX" envDefault:"sess"`
}

// AMQP configures the activity queue.  An empty URL disables publishing on
// the server; the worker falls back to the local broker.
type AMQP struct {
	URL   string `env:"URL"`
	Queue string `env:"QUEUE" envDefault:"dashboard.activity"`
}

// DB holds the MySQL connection used for the activity log.  An empty Host
// means the activity log is not configured.
type DB struct {
	User          string `env:"USER" envDefault:"root"`
	Pass          string `env:"PASS"`
	Host          string `env:"HOST"`
	Port          string `env:"PORT" envDefault:"3306"`
	Name          string `env:"NAME" envDefault:"cloudchaser"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// Enabled reports whether a database host was configured.
func (d DB) Enabled() bool { return d.Host != "" }

// Addr returns host:port.
func (d DB) Addr() string { return net.JoinHostPort(d.Host, d.Port) }

// Load reads an optional .env file and then parses the environment.
// Variables already set in the process win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.RateLimit = cfg.RateLimit.normalize()
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 12 * time.Hour
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
