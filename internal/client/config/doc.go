// Package config loads runtime configuration for the padho CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables with the PADHO_ prefix (see parseEnv), plus a
//     ./.env file if one exists. Real environment variables win over it.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the learning platform backend
//	-t int      per-request timeout (seconds)
//	-p int      loopback port that receives the provider redirect
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "backend_url": "http://127.0.0.1:8001",
//	  "provider_url": "http://127.0.0.1:8001/dev/provider",
//	  "callback_port": 8765,
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
