// Package config loads runtime configuration for the timecapsule CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with CAPSULE_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL
//	-t int      request timeout (seconds)
//	-d string   path of the local SQLite database
//	-l string   log format: json, text or console
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work.
// The pricing block replaces the whole estimator table:
//
//	{
//	  "api_base_url": "api.example.com",
//	  "request_timeout": "15s",
//	  "database_path": "capsule.db",
//	  "log_format": "json",
//	  "max_parallel_uploads": 4,
//	  "pricing": {"week": 1000, "month": 5000, "year": 10000, "custom_bands": [{"max_days": 7, "price": 1000}]}
//	}
//
// The development bypass token is only read from CAPSULE_BYPASS_TOKEN and is
// dropped unless CAPSULE_ENV is "dev". It never comes from JSON or flags.
package config
