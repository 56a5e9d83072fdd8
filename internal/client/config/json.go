package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/padho/internal/flagx"
	"github.com/dmitrijs2005/padho/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Omitted fields keep
// their previous value.
type JsonConfig struct {
	BackendURL     *string         `json:"backend_url"`
	ProviderURL    *string         `json:"provider_url"`
	CallbackPort   *int            `json:"callback_port"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c / -config, if any.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	if jc.BackendURL != nil {
		cfg.BackendURL = *jc.BackendURL
	}
	if jc.ProviderURL != nil {
		cfg.ProviderURL = *jc.ProviderURL
	}
	if jc.CallbackPort != nil {
		cfg.CallbackPort = *jc.CallbackPort
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
