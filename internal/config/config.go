// Package config loads the ndrweb YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ulule/limiter/v3"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is the top level configuration.
type Config struct {
	// Listen is the HTTP listen address. Default: 0.0.0.0:8080
	Listen string `yaml:"listen"`

	// Store selects the backend, memory or postgres. Default: memory
	Store string `yaml:"store"`

	// ShutdownTimeout bounds graceful shutdown. Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	TLS         TLSConfig         `yaml:"tls"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Session     SessionConfig     `yaml:"session"`
	Login       LoginConfig       `yaml:"login"`
	Redis       RedisConfig       `yaml:"redis"`
	CORS        CORSConfig        `yaml:"cors"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// TLSConfig enables HTTPS when both files are set.
type TLSConfig struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

// Enabled reports whether TLS is configured.
func (c TLSConfig) Enabled() bool {
	return c.Cert != "" && c.Key != ""
}

// PostgresConfig mirrors postgres.PoolConfig.
type PostgresConfig struct {
	ConnString             string `yaml:"conn_string"`
	MaxConns               int32  `yaml:"max_conns"`
	MinConns               int32  `yaml:"min_conns"`
	MaxConnLifetime        int32  `yaml:"max_conn_lifetime"`
	MaxConnIdleTime        int32  `yaml:"max_conn_idle_time"`
	ConnectTimeout         int32  `yaml:"connect_timeout"`
	ConnectRetryMaxElapsed int32  `yaml:"connect_retry_max_elapsed"`
	AutoMigrate            bool   `yaml:"auto_migrate"`
}

type SessionConfig struct {
	// Secret signs the session cookie, at least 32 bytes.
	Secret string `yaml:"secret"`

	// TTL of a server-side session. Default: 168h
	TTL time.Duration `yaml:"ttl"`

	// InsecureCookie allows the cookie over plain HTTP (local development).
	InsecureCookie bool `yaml:"insecure_cookie"`
}

type LoginConfig struct {
	// RateLimit for POST /login per client IP. Default: 10-M
	RateLimit string `yaml:"rate_limit"`

	// TrustProxy honours X-Forwarded-For and X-Real-IP.
	TrustProxy bool `yaml:"trust_proxy"`
}

// RedisConfig is optional; when Addr is set login rate limits are shared through Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MaintenanceConfig struct {
	// SessionCleanupSchedule is a cron spec. Default: @hourly
	SessionCleanupSchedule string `yaml:"session_cleanup_schedule"`
}

type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	// SampleRatio of traces to record, 0 to 1. Default: 1
	SampleRatio *float64 `yaml:"sample_ratio"`
}

// Ratio returns the trace sample ratio, 1 when unset.
func (c TelemetryConfig) Ratio() float64 {
	if c.SampleRatio == nil {
		return 1
	}
	return *c.SampleRatio
}

// ApplyDefaults applies default values to unset configuration fields.
func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = "0.0.0.0:8080"
	}
	if c.Store == "" {
		c.Store = StoreMemory
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 168 * time.Hour
	}
	if c.Login.RateLimit == "" {
		c.Login.RateLimit = "10-M"
	}
	if c.Maintenance.SessionCleanupSchedule == "" {
		c.Maintenance.SessionCleanupSchedule = "@hourly"
	}
	if c.Telemetry.SampleRatio == nil {
		ratio := 1.0
		c.Telemetry.SampleRatio = &ratio
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Postgres.ConnString == "" {
			errs = append(errs, errors.New("postgres.conn_string is required when store is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("store must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store))
	}

	if len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("session.secret must be at least 32 bytes"))
	}

	if c.Session.TTL < 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}

	if (c.TLS.Cert == "") != (c.TLS.Key == "") {
		errs = append(errs, errors.New("tls.cert and tls.key must be set together"))
	}

	if _, err := limiter.NewRateFromFormatted(c.Login.RateLimit); err != nil {
		errs = append(errs, fmt.Errorf("login.rate_limit: %w", err))
	}

	if _, err := cron.ParseStandard(c.Maintenance.SessionCleanupSchedule); err != nil {
		errs = append(errs, fmt.Errorf("maintenance.session_cleanup_schedule: %w", err))
	}

	if r := c.Telemetry.Ratio(); r < 0 || r > 1 {
		errs = append(errs, errors.New("telemetry.sample_ratio must be between 0 and 1"))
	}

	return errors.Join(errs...)
}

// Load reads the file at path, expanding ${VAR} references from the
// environment, then applies defaults and validates. An empty path yields the
// defaults with environment overrides only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := Parse(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if secret := os.Getenv("NDRWEB_SESSION_SECRET"); secret != "" && cfg.Session.Secret == "" {
		cfg.Session.Secret = secret
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML into cfg after environment expansion. Unknown keys are rejected.
func Parse(raw []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(raw))

	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return nil
}
