package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Secrets are read from DERBY_* environment variables rather than the
// config file.
type Secrets struct {
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordChannel string `env:"DISCORD_CHANNEL"`
}

// LoadSecrets parses secrets from the process environment.
func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := env.ParseWithOptions(&s, env.Options{Prefix: "DERBY_"}); err != nil {
		return Secrets{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
