package config

import (
	"time"
)

const (
	defaultRelayTimeout        = 15 * time.Second
	defaultProfileFetchTimeout = 5 * time.Second
)

// ClientConfig configures the storefront client. It only ever carries the anon
// key; the service key stays on the relay.
type ClientConfig struct {
	Relay struct {
		BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
		AnonKey string        `json:"anonKey" yaml:"anonKey"`
		Timeout time.Duration `json:"timeout" yaml:"timeout"`
	} `json:"relay" yaml:"relay"`

	// LocalStore is the bbolt file backing the session cache; empty keeps it in memory.
	LocalStore struct {
		Path string `json:"path" yaml:"path"`
	} `json:"localStore" yaml:"localStore"`

	// ProfileFetchTimeout bounds the profile lookup that follows a sign-in.
	ProfileFetchTimeout time.Duration `json:"profileFetchTimeout" yaml:"profileFetchTimeout"`

	Log Log `json:"log" yaml:"log"`
}

// NewClient loads storefront.yaml from the usual config directories.
func NewClient() (*ClientConfig, error) {
	cfg, err := LoadWithEnv[ClientConfig]("storefront", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills zero values with the shop defaults.
func (cfg *ClientConfig) ApplyDefaults() {
	if cfg.Relay.Timeout == 0 {
		cfg.Relay.Timeout = defaultRelayTimeout
	}
	if cfg.ProfileFetchTimeout == 0 {
		cfg.ProfileFetchTimeout = defaultProfileFetchTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
}
