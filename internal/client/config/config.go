package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the padho CLI.
type Config struct {
	BackendURL     string
	ProviderURL    string
	CallbackPort   int
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with defaults suited to a local backend.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:8001"
	c.ProviderURL = "http://127.0.0.1:8001/dev/provider"
	c.CallbackPort = 8765
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// CallbackAddr is the listen address of the loopback redirect receiver.
func (c *Config) CallbackAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", c.CallbackPort)
}

// LoadConfig applies defaults, then environment, JSON and flags in that
// order. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
