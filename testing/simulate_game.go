// Scripted autoplay harness: walks an entire campaign without a TUI,
// answering every encounter from its authored solution and taking the
// first correct branch at every fork. Useful for smoke-testing campaign
// content end to end.
package main

import (
	"fmt"
	"log"
	"os"

	"hashquest/internal/achievement"
	"hashquest/internal/adventure"
	"hashquest/internal/content"
)

const maxSteps = 200

func main() {
	path := "campaigns/gauntlet.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	campaign, err := content.Load(path)
	if err != nil {
		log.Fatalf("Failed to load campaign: %v", err)
	}
	fmt.Printf("--- Playing %q (%d encounters) ---\n", campaign.Title, campaign.TotalEncounters())

	adv := adventure.New(campaign, achievement.NewEngine(), "simulator")
	adv.Events().Subscribe(adventure.EventCheckpointReached, func(p adventure.Payload) {
		fmt.Printf("    [checkpoint at %s]\n", p.EncounterID)
	})

	for step := 1; step <= maxSteps; step++ {
		enc := adv.CurrentEncounter()
		fmt.Printf("%3d. %s/%s (%s)\n", step, adv.CurrentChapter().ID, enc.ID, enc.Kind)

		var res adventure.Result
		if enc.IsFork() {
			res = adv.MakeChoice(firstCorrectChoice(enc))
		} else {
			res = adv.RecordOutcome(adventure.Success)
		}

		if res.XP > 0 {
			fmt.Printf("    +%d XP\n", res.XP)
		}
		for _, ach := range res.Unlocked {
			fmt.Printf("    unlocked: %s\n", ach.Title)
		}

		switch res.Action {
		case adventure.ActionCampaignComplete:
			p := adv.Progress()
			fmt.Printf("--- Campaign complete: %d/%d encounters, %d XP, %d achievements ---\n",
				p.Completed, p.Total, p.TotalXP, p.Achievements)
			return
		case adventure.ActionGameOver, adventure.ActionError:
			log.Fatalf("unexpected %s: %s", res.Action, res.ErrorMessage)
		}
	}
	log.Fatalf("campaign did not finish within %d steps", maxSteps)
}

func firstCorrectChoice(enc *content.Encounter) string {
	for _, opt := range enc.Choices {
		if opt.Correct {
			return opt.ID
		}
	}
	return enc.Choices[0].ID
}
