// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret        string        `envconfig:"SECRET" required:"true"`
	RefreshSecret string        `envconfig:"REFRESH_SECRET" required:"true"`
	Expiry        time.Duration `envconfig:"EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"REFRESH_EXPIRY" default:"168h"`
}

// ExchangeRate configures the external rate source. An absent API key
// is a valid degraded mode, not a startup failure: the provider then
// serves persisted snapshots or static fallback rates.
type ExchangeRate struct {
	ApiKey      string        `envconfig:"API_KEY"`
	ApiUrl      string        `envconfig:"API_URL" default:"https://openexchangerates.org/api/latest.json"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[fintrackr]"`
}

type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// Mail configures outbound email. With an empty host, emails are
// logged instead of sent.
type Mail struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM" default:"FinTrackr <no-reply@fintrackr.app>"`
}

// Migration bounds the concurrent per-row writes issued while
// re-normalizing a user's transactions after a preference change.
type Migration struct {
	Workers int `envconfig:"WORKERS" default:"8"`
}

type App struct {
	Env       string        `envconfig:"APP_ENV" default:"development"`
	ClientURL string        `envconfig:"CLIENT_URL" default:"http://localhost:5173"`
	Server    *Server       `envconfig:"SERVER"`
	Log       *Log          `envconfig:"LOG"`
	DB        *DB           `envconfig:"DATABASE"`
	Jwt       *Jwt          `envconfig:"JWT"`
	Exchange  *ExchangeRate `envconfig:"EXCHANGE_RATE"`
	RateLimit *RateLimit    `envconfig:"RATE_LIMIT"`
	Mail      *Mail         `envconfig:"MAIL"`
	Migration *Migration    `envconfig:"MIGRATION"`
}
