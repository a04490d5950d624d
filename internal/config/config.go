// Package config loads the fulfillmentctl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/innabox/fulfillment-console/internal/logging"
)

// Environment variables that override file values.
const (
	EnvToken      = "FULFILLMENT_TOKEN"
	EnvConsoleURL = "FULFILLMENT_CONSOLE_URL"
	EnvAPIURL     = "FULFILLMENT_API_URL"
	EnvGRPCAddr   = "FULFILLMENT_GRPC_ADDRESS"
)

// Config is the CLI configuration.
type Config struct {
	// ConsoleURL is the console serving /api/config. Ignored when APIURL is set.
	ConsoleURL string `yaml:"console_url"`
	// APIURL is the fulfillment API base URL, skipping configuration discovery.
	APIURL string `yaml:"api_url"`
	// GRPCAddress switches to native gRPC against host:port, bypassing
	// gRPC-Web and discovery.
	GRPCAddress string `yaml:"grpc_address"`
	// Plaintext disables TLS for GRPCAddress.
	Plaintext bool   `yaml:"plaintext"`
	Token     string `yaml:"token"`
	// ConfigTimeout bounds base URL discovery, e.g. "10s".
	ConfigTimeout string `yaml:"config_timeout"`
	// Output is the command output format, json or yaml.
	Output string `yaml:"output"`

	OTelEndpoint string         `yaml:"otel_endpoint"`
	Metrics      bool           `yaml:"metrics"`
	Log          logging.Config `yaml:"log"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		ConfigTimeout: "10s",
		Output:        "yaml",
		Log:           logging.DefaultConfig(),
	}
}

// Load reads the YAML file at path over the defaults. A missing file, or
// an empty path, yields the defaults. Environment overrides apply in every
// case.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvConsoleURL); v != "" {
		cfg.ConsoleURL = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvGRPCAddr); v != "" {
		cfg.GRPCAddress = v
	}
}

// Validate checks the values a command needs before talking to the API.
func (c *Config) Validate() error {
	if c.ConsoleURL == "" && c.APIURL == "" && c.GRPCAddress == "" {
		return errors.New("config: one of console_url, api_url or grpc_address is required")
	}
	if c.Output != "json" && c.Output != "yaml" {
		return fmt.Errorf("config: unsupported output format %q", c.Output)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout parses ConfigTimeout. Empty means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.ConfigTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ConfigTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: config_timeout: %w", err)
	}
	return d, nil
}

// Save writes the configuration to path as YAML with mode 0600.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
