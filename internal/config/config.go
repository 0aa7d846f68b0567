// Package config provides environment-driven configuration for citegraph.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/persistorai/citegraph/internal/models"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL    Secret // empty disables persistence
	DBMaxConns     int32
	Port           string
	ListenHost     string
	CORSOrigins    []string
	LogLevel       string
	APIKeys        Secret // comma-separated name=key entries; empty disables auth
	RateLimit      float64
	RateBurst      int
	SPARQLEndpoint string
	DocumentKind   models.Kind
	LookupTimeout  time.Duration
	LookupRate     float64
	LookupRetries  int
	ExpandWorkers  int
	SweepWorkers   int
	MaxDepth       int
	ReferenceFile  string
}

// DefaultSPARQLEndpoint is the EU Publications Office SPARQL endpoint.
const DefaultSPARQLEndpoint = "https://publications.europa.eu/webapi/rdf/sparql"

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    Secret(envOrDefault("DATABASE_URL", "")),
		Port:           envOrDefault("PORT", "3040"),
		ListenHost:     envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		APIKeys:        Secret(envOrDefault("API_KEYS", "")),
		SPARQLEndpoint: envOrDefault("SPARQL_ENDPOINT", DefaultSPARQLEndpoint),
		ReferenceFile:  envOrDefault("REFERENCE_FILE", ""),
	}

	kind, err := models.ParseKind(envOrDefault("DOCUMENT_KIND", "legislation"))
	if err != nil {
		return nil, fmt.Errorf("DOCUMENT_KIND: %w", err)
	}
	cfg.DocumentKind = kind

	timeout, err := time.ParseDuration(envOrDefault("LOOKUP_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("LOOKUP_TIMEOUT must be a positive duration")
	}
	cfg.LookupTimeout = timeout

	if cfg.LookupRate, err = envFloat("LOOKUP_RATE", "5"); err != nil {
		return nil, err
	}

	if cfg.RateLimit, err = envFloat("RATE_LIMIT", "20"); err != nil {
		return nil, err
	}

	ints := []struct {
		key      string
		fallback string
		min, max int
		dst      *int
	}{
		{"LOOKUP_RETRIES", "3", 1, 10, &cfg.LookupRetries},
		{"EXPAND_WORKERS", "4", 1, 16, &cfg.ExpandWorkers},
		{"SWEEP_WORKERS", "2", 1, 16, &cfg.SweepWorkers},
		{"MAX_DEPTH", "5", 0, 10, &cfg.MaxDepth},
		{"RATE_BURST", "40", 1, 10000, &cfg.RateBurst},
	}
	for _, v := range ints {
		n, err := strconv.Atoi(envOrDefault(v.key, v.fallback))
		if err != nil || n < v.min || n > v.max {
			return nil, fmt.Errorf("%s must be an integer between %d and %d", v.key, v.min, v.max)
		}
		*v.dst = n
	}

	maxConns, err := strconv.ParseInt(envOrDefault("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be a positive integer")
	}
	cfg.DBMaxConns = int32(maxConns)

	cfg.CORSOrigins = splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000"))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// PersistenceEnabled reports whether a database is configured.
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL.Value() != ""
}

// APIKeyEntries returns the configured name=key entries.
func (c *Config) APIKeyEntries() []string {
	return splitList(c.APIKeys.Value())
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func envFloat(key, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", key)
	}

	return v, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
