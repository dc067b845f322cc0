package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"hashquest/internal/achievement"
	"hashquest/internal/adventure"
	"hashquest/internal/config"
	"hashquest/internal/content"
	"hashquest/internal/cracker"
	"hashquest/internal/narrator"
	"hashquest/internal/save"
	"hashquest/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log := zerolog.New(logFile).With().Timestamp().Logger()

	campaign, err := content.Load(cfg.CampaignPath)
	if err != nil {
		return fmt.Errorf("loading campaign: %w", err)
	}

	engine := achievement.NewEngine()
	store := save.NewStore(cfg.SaveDir)

	var adv *adventure.Adventure
	if store.Exists(campaign.ID, cfg.PlayerName) {
		state, err := store.Load(campaign.ID, cfg.PlayerName)
		if err != nil {
			return fmt.Errorf("loading save: %w", err)
		}
		adv, err = adventure.Resume(campaign, engine, state, adventure.WithLogger(log))
		if err != nil {
			return fmt.Errorf("resuming save: %w", err)
		}
		log.Info().Str("player", cfg.PlayerName).Msg("resumed saved run")
	} else {
		opts := []adventure.Option{adventure.WithLogger(log)}
		if cfg.RogueMode {
			opts = append(opts, adventure.WithRogueMode())
		}
		adv = adventure.New(campaign, engine, cfg.PlayerName, opts...)
		log.Info().Str("player", cfg.PlayerName).Str("campaign", campaign.ID).Msg("started new run")
	}

	deps := tui.Deps{
		Adventure: adv,
		Store:     store,
		Worker:    cracker.New(log),
		Wordlist:  cfg.WordlistPath,
		Log:       log,
	}

	if cfg.GeminiAPIKey != "" && !cfg.RogueMode {
		narr, err := narrator.New(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Warn().Err(err).Msg("narrator unavailable, playing without it")
		} else {
			defer narr.Close()
			deps.Narrator = narr
		}
	}

	return tui.Run(deps)
}
