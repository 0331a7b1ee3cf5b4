package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/timecapsule/internal/flagx"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
	"github.com/dmitrijs2005/timecapsule/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// keep the value already in Config.
type JsonConfig struct {
	APIBaseURL         string         `json:"api_base_url"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	DatabasePath       string         `json:"database_path"`
	LogFormat          string         `json:"log_format"`
	MaxParallelUploads int            `json:"max_parallel_uploads"`
	Pricing            *pricing.Table `json:"pricing"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.MaxParallelUploads > 0 {
		cfg.MaxParallelUploads = jc.MaxParallelUploads
	}
	if jc.Pricing != nil {
		cfg.Pricing = *jc.Pricing
	}
}
