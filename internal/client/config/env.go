package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotEnvFile is read, when it exists, before the environment. Variables
// already present in the environment take precedence over the file.
var dotEnvFile = ".env"

type envConfig struct {
	BackendURL     *string        `env:"BACKEND_URL"`
	ProviderURL    *string        `env:"PROVIDER_URL"`
	CallbackPort   *int           `env:"CALLBACK_PORT"`
	RequestTimeout *time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       *string        `env:"LOG_LEVEL"`
	LogFormat      *string        `env:"LOG_FORMAT"`
}

// parseEnv overlays cfg with PADHO_* variables. Unset variables leave the
// current value alone. Panics on malformed values.
func parseEnv(cfg *Config) {
	loadDotEnv()

	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: "PADHO_"}); err != nil {
		panic(err)
	}

	if ec.BackendURL != nil {
		cfg.BackendURL = *ec.BackendURL
	}
	if ec.ProviderURL != nil {
		cfg.ProviderURL = *ec.ProviderURL
	}
	if ec.CallbackPort != nil {
		cfg.CallbackPort = *ec.CallbackPort
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	if ec.LogLevel != nil {
		cfg.LogLevel = *ec.LogLevel
	}
	if ec.LogFormat != nil {
		cfg.LogFormat = *ec.LogFormat
	}
}

func loadDotEnv() {
	if _, err := os.Stat(dotEnvFile); err != nil {
		if os.IsNotExist(err) {
			return
		}
		panic(err)
	}
	if err := godotenv.Load(dotEnvFile); err != nil {
		panic(err)
	}
}
