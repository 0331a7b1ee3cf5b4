// Package config handles configuration for the dev backend: defaults, an
// optional JSON file, DEVBACKEND_* environment variables and command-line
// flags, applied in that order.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
)

// Config holds runtime settings for the dev backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside a laptop.
//   - TokenTTL: lifetime of tokens issued by the dev token endpoint.
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible store.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - PresignTTL: lifetime of presigned PUT and GET URLs.
//   - SignContentType: include Content-Type in the presigned PUT signature.
type Config struct {
	Addr            string
	PublicURL       string
	SecretKey       string
	TokenTTL        time.Duration
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	PresignTTL      time.Duration
	SignContentType bool
	LogFormat       string
	Pricing         pricing.Table
}

// LoadDefaults populates Config with development defaults that match a
// local MinIO started with its stock credentials.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.PublicURL = "http://localhost:8080"
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.S3AccessKey = "minioadmin"
	c.S3SecretKey = "minioadmin"
	c.S3Bucket = "timecapsule"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000"
	c.PresignTTL = 15 * time.Minute
	c.SignContentType = true
	c.LogFormat = logging.FormatJSON
	c.Pricing = pricing.DefaultTable()
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return cfg
}

// Validate reports settings the backend cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.S3Bucket == "" {
		errs = append(errs, errors.New("s3 bucket is required"))
	}
	if c.TokenTTL <= 0 || c.PresignTTL <= 0 {
		errs = append(errs, errors.New("token and presign ttl must be positive"))
	}
	if err := c.Pricing.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
