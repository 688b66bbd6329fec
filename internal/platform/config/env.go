// Package config loads tool configuration from environment variables, an
// optional .env file, and an optional TOML file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
//
// Fields without a matching variable keep their current value, so callers can
// seed target with defaults or file values before calling ParseEnv.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
