package idgen

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file values.
const (
	EnvHost = "IDGEN_HOST"
	EnvPath = "IDGEN_PATH"
)

// Config locates the identifier service. It is passed by value to NewClient
// and never changes afterwards.
type Config struct {
	Host     string        `json:"host" yaml:"host"`
	Path     string        `json:"path" yaml:"path"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	Verify   bool          `json:"verify" yaml:"verify"`
	HTTP3    bool          `json:"http3" yaml:"http3"`
	MaxConns int           `json:"maxConns" yaml:"maxConns"`
}

// DefaultConfig returns the defaults LoadConfig starts from.
func DefaultConfig() Config {
	return Config{
		Path:     "/egov-idgen/id/_generate",
		Timeout:  30 * time.Second,
		Verify:   true,
		MaxConns: 100,
	}
}

// LoadConfig reads a yaml file on top of DefaultConfig and applies the
// IDGEN_HOST and IDGEN_PATH overrides. An empty path skips the file.
// The result is not validated; NewClient does that.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		cfg.Path = v
	}
	return cfg, nil
}

// Validate returns an error describing the first invalid setting.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("idgen config: host is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("idgen config: timeout must be > 0")
	}
	return nil
}

// URL is host followed by path, joined as given.
func (c Config) URL() string {
	return c.Host + c.Path
}

// sessionOptions translates the config into transport options.
func (c Config) sessionOptions() []Option {
	opts := []Option{Timeout(c.Timeout), Verify(c.Verify), EnableHTTP3(c.HTTP3)}
	if c.MaxConns > 0 {
		opts = append(opts, MaxConns(c.MaxConns))
	}
	return opts
}
