package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DBConfig holds the PostgreSQL connection parts used when DATABASE_URL is empty.
type DBConfig struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	Database string `env:"DB_DATABASE"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"require"`
}

// Config is the process configuration.
//
// Environment variables:
//   - PORT: HTTP port (default 8080)
//   - DATABASE_URL: PostgreSQL DSN, or DB_HOST/DB_PORT/DB_DATABASE/DB_USER/DB_PASSWORD/DB_SSLMODE
//   - MONGODB: MongoDB connection string (required)
//   - MONGODB_DATABASE: Mongo database name (default lego)
//   - SESSION_SECRET: session cookie signing key (required)
//   - SESSION_DURATION: session lifetime (default 1h)
//   - LOGIN_RATE, LOGIN_BURST: per-client throttling of login and register posts
//     (LOGIN_RATE=0 disables it)
//   - TRUST_PROXY: take client addresses from forwarding headers (default false)
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	DB          DBConfig

	MongoURI      string `env:"MONGODB,required,notEmpty"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"lego"`

	SessionSecret   string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"1h"`

	LoginRate  float64 `env:"LOGIN_RATE" envDefault:"1"`
	LoginBurst int     `env:"LOGIN_BURST" envDefault:"5"`
	TrustProxy bool    `env:"TRUST_PROXY" envDefault:"false"`
}

var (
	ErrMissingDatabase = errors.New("DATABASE_URL or DB_HOST, DB_DATABASE and DB_USER must be set")
	ErrLoginBurst      = errors.New("LOGIN_BURST must be at least 1 when LOGIN_RATE is set")
)

// Load reads .env.local when present and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env.local")
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that a relational store can be reached and that login
// throttling lets at least one request through.
func (c Config) Validate() error {
	if c.LoginRate > 0 && c.LoginBurst < 1 {
		return ErrLoginBurst
	}
	if c.DatabaseURL != "" {
		return nil
	}
	if c.DB.Host == "" || c.DB.Database == "" || c.DB.User == "" {
		return ErrMissingDatabase
	}
	return nil
}

// PostgresDSN returns DATABASE_URL, or a URL assembled from the DB_* parts.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     net.JoinHostPort(c.DB.Host, c.DB.Port),
		Path:     "/" + c.DB.Database,
		RawQuery: url.Values{"sslmode": {c.DB.SSLMode}}.Encode(),
	}
	return u.String()
}

// LoadDSN reads only the PostgreSQL settings, for tools that never open a
// session or touch MongoDB.
func LoadDSN() (string, error) {
	_ = godotenv.Load(".env.local")
	cfg := Config{DatabaseURL: os.Getenv("DATABASE_URL")}
	if err := env.Parse(&cfg.DB); err != nil {
		return "", fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return cfg.PostgresDSN(), nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
