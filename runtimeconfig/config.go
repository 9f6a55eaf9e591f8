// Package runtimeconfig implements the ambient runtime configuration
// layer (§6): connection strings, subgraph URLs and per-subgraph
// timeouts, rate-limit thresholds, audit-logging level, and
// error-sanitization level, loaded from YAML via gopkg.in/yaml.v3 (a
// teacher dependency already used for gqlgen.yml authoring) and built
// through the same functional-options pattern fraiseql.Config uses.
// None of this package's settings ever trigger a schema recompile: a
// CompiledSchema is immutable once produced (§3, §9), so hot-reloading
// this file (watch.go) only ever replaces the Config value a running
// server reads through, never the schema it serves.
package runtimeconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fraiseql/fraiseql"
)

// SubgraphConfig is one federation peer's connection details (§4.G
// HttpSubgraphStrategy): its base URL and the request timeout specific
// to it, overriding the process-wide default.
type SubgraphConfig struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RateLimit is one rate-limiting threshold (§6: "environment variable
// overrides for rate-limiting thresholds").
type RateLimit struct {
	Name       string        `yaml:"name"`
	MaxTokens  int           `yaml:"max_tokens"`
	RefillRate int           `yaml:"refill_rate"`
	Window     time.Duration `yaml:"window"`
}

// Config is the full ambient runtime configuration: everything a
// running FraiseQL process needs beyond the compiled schema itself.
// Base holds the core fraiseql.Config (target, APQ TTL, request
// timeout, error sanitization) so a Config here produces one coherent
// value to pass through every constructor.
type Config struct {
	Base fraiseql.Config

	ConnectionString string           `yaml:"connection_string"`
	Subgraphs        []SubgraphConfig `yaml:"subgraphs"`
	RateLimits       []RateLimit      `yaml:"rate_limits"`

	// AuditLevel controls how much detail tb_audit_event entries carry:
	// "off", "summary" (action+target only), or "full" (includes Detail).
	AuditLevel string `yaml:"audit_level"`

	// PKCEStateAlgorithm names the encryption algorithm used for PKCE
	// state parameter encryption (§6), e.g. "aes-256-gcm".
	PKCEStateAlgorithm string `yaml:"pkce_state_algorithm"`

	// OTLPEndpoint configures observability.Setup; empty disables tracing.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Option configures a Config via functional options, matching the root
// package's Option pattern.
type Option func(*Config)

// WithConnectionString sets the database connection string.
func WithConnectionString(s string) Option {
	return func(c *Config) { c.ConnectionString = s }
}

// WithSubgraph appends one federation peer's configuration.
func WithSubgraph(s SubgraphConfig) Option {
	return func(c *Config) { c.Subgraphs = append(c.Subgraphs, s) }
}

// WithRateLimit appends one rate-limiting threshold.
func WithRateLimit(r RateLimit) Option {
	return func(c *Config) { c.RateLimits = append(c.RateLimits, r) }
}

// WithAuditLevel sets the audit-logging detail level.
func WithAuditLevel(level string) Option {
	return func(c *Config) { c.AuditLevel = level }
}

// WithBase overrides Base, the core fraiseql.Config.
func WithBase(base fraiseql.Config) Option {
	return func(c *Config) { c.Base = base }
}

// New builds a Config from functional options, defaulting Base to
// fraiseql.NewConfig()'s own defaults.
func New(opts ...Option) Config {
	c := Config{
		Base:               fraiseql.NewConfig(),
		AuditLevel:         "summary",
		PKCEStateAlgorithm: "aes-256-gcm",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Load reads and parses a YAML runtime configuration file, falling back
// to New()'s defaults for any field the file leaves unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("runtimeconfig: load %s: %w", path, err)
	}
	c := New()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("runtimeconfig: parse %s: %w", path, err)
	}
	return c, nil
}

// Save writes c back out as YAML.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("runtimeconfig: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("runtimeconfig: save %s: %w", path, err)
	}
	return nil
}

// SubgraphTimeout returns name's configured timeout, or fallback when
// name isn't found or its timeout isn't set.
func (c Config) SubgraphTimeout(name string, fallback time.Duration) time.Duration {
	for _, s := range c.Subgraphs {
		if s.Name == name {
			if s.Timeout > 0 {
				return s.Timeout
			}
			break
		}
	}
	return fallback
}
