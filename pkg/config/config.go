// Package config loads wait and browser settings for the pagewait tools
// from YAML, with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// Environment variables that override file settings.
const (
	EnvTimeout      = "PAGEWAIT_TIMEOUT"
	EnvPollInterval = "PAGEWAIT_POLL_INTERVAL"
	EnvHeadless     = "PAGEWAIT_HEADLESS"
	EnvBrowserBin   = "PAGEWAIT_BROWSER_BIN"
)

// Config is the file format:
//
//	wait:
//	  timeout: 10s
//	  poll_interval: 100ms
//	browser:
//	  headless: true
//	  bin: /usr/bin/chromium
type Config struct {
	Wait    WaitConfig    `yaml:"wait"`
	Browser BrowserConfig `yaml:"browser"`
}

// WaitConfig holds the poller policy.
type WaitConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// BrowserConfig holds local browser launch settings.
type BrowserConfig struct {
	Headless bool   `yaml:"headless"`
	Bin      string `yaml:"bin"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Wait: WaitConfig{
			Timeout:      waitfor.DefaultTimeout,
			PollInterval: waitfor.DefaultPollInterval,
		},
		Browser: BrowserConfig{Headless: true},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML in %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Wait.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv(EnvPollInterval)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollInterval, err)
		}
		cfg.Wait.PollInterval = d
	}
	if v, ok := envBool(EnvHeadless); ok {
		cfg.Browser.Headless = v
	}
	if v := os.Getenv(EnvBrowserBin); v != "" {
		cfg.Browser.Bin = v
	}
	return nil
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Wait.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("wait.timeout must be positive, got %v", c.Wait.Timeout))
	}
	if c.Wait.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("wait.poll_interval must be positive, got %v", c.Wait.PollInterval))
	}
	return errors.Join(errs...)
}

// PollerOptions returns the poller options for the wait settings.
func (c *Config) PollerOptions() []waitfor.Option {
	return []waitfor.Option{
		waitfor.WithTimeout(c.Wait.Timeout),
		waitfor.WithPollInterval(c.Wait.PollInterval),
	}
}
