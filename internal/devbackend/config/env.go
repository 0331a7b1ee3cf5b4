package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "DEVBACKEND"

type envSpec struct {
	Addr            string        `envconfig:"ADDR"`
	PublicURL       string        `envconfig:"PUBLIC_URL"`
	SecretKey       string        `envconfig:"SECRET_KEY"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL"`
	S3AccessKey     string        `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string        `envconfig:"S3_SECRET_KEY"`
	S3Bucket        string        `envconfig:"S3_BUCKET"`
	S3Region        string        `envconfig:"S3_REGION"`
	S3BaseEndpoint  string        `envconfig:"S3_BASE_ENDPOINT"`
	PresignTTL      time.Duration `envconfig:"PRESIGN_TTL"`
	SignContentType bool          `envconfig:"SIGN_CONTENT_TYPE"`
	LogFormat       string        `envconfig:"LOG_FORMAT"`
}

// parseEnv overlays Config with DEVBACKEND_* variables.
func parseEnv(cfg *Config) {
	spec := envSpec{
		Addr:            cfg.Addr,
		PublicURL:       cfg.PublicURL,
		SecretKey:       cfg.SecretKey,
		TokenTTL:        cfg.TokenTTL,
		S3AccessKey:     cfg.S3AccessKey,
		S3SecretKey:     cfg.S3SecretKey,
		S3Bucket:        cfg.S3Bucket,
		S3Region:        cfg.S3Region,
		S3BaseEndpoint:  cfg.S3BaseEndpoint,
		PresignTTL:      cfg.PresignTTL,
		SignContentType: cfg.SignContentType,
		LogFormat:       cfg.LogFormat,
	}
	if err := envconfig.Process(envPrefix, &spec); err != nil {
		panic(err)
	}

	cfg.Addr = spec.Addr
	cfg.PublicURL = spec.PublicURL
	cfg.SecretKey = spec.SecretKey
	cfg.TokenTTL = spec.TokenTTL
	cfg.S3AccessKey = spec.S3AccessKey
	cfg.S3SecretKey = spec.S3SecretKey
	cfg.S3Bucket = spec.S3Bucket
	cfg.S3Region = spec.S3Region
	cfg.S3BaseEndpoint = spec.S3BaseEndpoint
	cfg.PresignTTL = spec.PresignTTL
	cfg.SignContentType = spec.SignContentType
	cfg.LogFormat = spec.LogFormat
}
