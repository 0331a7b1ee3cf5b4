package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CAPSULE"

// envSpec mirrors the settings that may come from the environment. Unset
// variables leave the current value alone.
type envSpec struct {
	APIBaseURL         string        `envconfig:"API_BASE_URL"`
	Env                string        `envconfig:"ENV"`
	BypassToken        string        `envconfig:"BYPASS_TOKEN"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT"`
	DatabasePath       string        `envconfig:"DB_PATH"`
	LogFormat          string        `envconfig:"LOG_FORMAT"`
	MaxParallelUploads int           `envconfig:"MAX_PARALLEL_UPLOADS"`
}

// parseEnv overlays Config with CAPSULE_* variables. The bypass token is
// cleared outside the dev environment.
func parseEnv(cfg *Config) {
	spec := envSpec{
		APIBaseURL:         cfg.APIBaseURL,
		Env:                cfg.Env,
		RequestTimeout:     cfg.RequestTimeout,
		DatabasePath:       cfg.DatabasePath,
		LogFormat:          cfg.LogFormat,
		MaxParallelUploads: cfg.MaxParallelUploads,
	}
	if err := envconfig.Process(envPrefix, &spec); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = spec.APIBaseURL
	cfg.Env = strings.ToLower(strings.TrimSpace(spec.Env))
	cfg.RequestTimeout = spec.RequestTimeout
	cfg.DatabasePath = spec.DatabasePath
	cfg.LogFormat = spec.LogFormat
	cfg.MaxParallelUploads = spec.MaxParallelUploads

	cfg.BypassToken = ""
	if cfg.Env == EnvDev {
		cfg.BypassToken = strings.TrimSpace(spec.BypassToken)
	}
}
