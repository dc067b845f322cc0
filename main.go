package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"hashquest/internal/achievement"
	"hashquest/internal/adventure"
	"hashquest/internal/content"
	"hashquest/internal/cracker"
	"hashquest/internal/save"
	"hashquest/internal/tui"
)

// Minimal launcher: default campaign, default save dir, no narrator.
// Use cmd/game for the fully configured build.
func main() {
	campaign, err := content.Load("campaigns/gauntlet.yaml")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	engine := achievement.NewEngine()
	store := save.NewStore(".saves")
	log := zerolog.Nop()

	var adv *adventure.Adventure
	if store.Exists(campaign.ID, "adventurer") {
		if state, err := store.Load(campaign.ID, "adventurer"); err == nil {
			if resumed, err := adventure.Resume(campaign, engine, state); err == nil {
				adv = resumed
			}
		}
	}
	if adv == nil {
		adv = adventure.New(campaign, engine, "adventurer")
	}

	err = tui.Run(tui.Deps{
		Adventure: adv,
		Store:     store,
		Worker:    cracker.New(log),
		Log:       log,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
