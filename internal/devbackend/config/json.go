package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/timecapsule/internal/flagx"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
	"github.com/dmitrijs2005/timecapsule/internal/timex"
)

// JsonConfig is the on-disk shape of the dev backend configuration. Fields
// left out of the file keep their current values.
type JsonConfig struct {
	Addr            string         `json:"addr"`
	PublicURL       string         `json:"public_url"`
	SecretKey       string         `json:"secret_key"`
	TokenTTL        timex.Duration `json:"token_ttl"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	PresignTTL      timex.Duration `json:"presign_ttl"`
	SignContentType *bool          `json:"sign_content_type"`
	LogFormat       string         `json:"log_format"`
	Pricing         *pricing.Table `json:"pricing"`
}

// parseJson loads the file named by -c or -config, if any, into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.PublicURL, c.PublicURL)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogFormat, c.LogFormat)
	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.PresignTTL.Duration > 0 {
		config.PresignTTL = c.PresignTTL.Duration
	}
	if c.SignContentType != nil {
		config.SignContentType = *c.SignContentType
	}
	if c.Pricing != nil {
		config.Pricing = *c.Pricing
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
