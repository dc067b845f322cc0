// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the game needs at startup. Only the campaign
// path has to exist on disk; the rest has workable defaults.
type Config struct {
	CampaignPath string `env:"HASHQUEST_CAMPAIGN" envDefault:"campaigns/gauntlet.yaml"`
	SaveDir      string `env:"HASHQUEST_SAVE_DIR" envDefault:".saves"`
	PlayerName   string `env:"HASHQUEST_PLAYER" envDefault:"adventurer"`
	WordlistPath string `env:"HASHQUEST_WORDLIST"`
	LogFile      string `env:"HASHQUEST_LOG" envDefault:"hashquest.log"`
	RogueMode    bool   `env:"HASHQUEST_ROGUE" envDefault:"false"`

	// Optional; the AI narrator stays off without it.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
