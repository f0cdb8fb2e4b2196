// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
)

// ClientConfig is the configuration of the command-line client.
type ClientConfig struct {
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Token is a previously issued bearer token.
	Token string `env:"CLIENT_TOKEN"`
}

// GetClientConfig reads the client configuration from the environment on
// top of the defaults. An explicit address overrides ADAPTER_ADDRESS.
func GetClientConfig(address string) (*ClientConfig, error) {
	defaults := defaultConfig()
	cfg := &ClientConfig{Adapter: defaults.Adapter}

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if address != "" {
		cfg.Adapter.HTTPAddress = address
	}

	return cfg, cfg.validate()
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" {
		return fmt.Errorf("%w: address is empty", ErrInvalidAdapterConfigs)
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidAdapterConfigs)
	}
	return nil
}
