package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config holds runtime settings for the timecapsule CLI.
type Config struct {
	APIBaseURL         string
	Env                string
	BypassToken        string
	RequestTimeout     time.Duration
	DatabasePath       string
	LogFormat          string
	MaxParallelUploads int
	Pricing            pricing.Table
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.Env = EnvProd
	c.BypassToken = ""
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "timecapsule.db"
	c.LogFormat = logging.FormatConsole
	c.MaxParallelUploads = 3
	c.Pricing = pricing.DefaultTable()
}

// LoadConfig applies defaults, then JSON, environment and flags in that
// order, and normalizes the base URL.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.APIBaseURL = NormalizeBaseURL(cfg.APIBaseURL)
	return cfg
}

// Validate reports settings the CLI cannot start with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.MaxParallelUploads < 1 {
		return fmt.Errorf("max parallel uploads must be at least 1")
	}
	if err := c.Pricing.Validate(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	return nil
}

// Bypass returns the development token when one is configured.
func (c *Config) Bypass() (string, bool) {
	if c.Env != EnvDev || c.BypassToken == "" {
		return "", false
	}
	return c.BypassToken, true
}

// NormalizeBaseURL adds https:// when no scheme is given and strips trailing
// slashes.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return strings.TrimRight(u, "/")
}
