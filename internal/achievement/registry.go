package achievement

// buildRegistry returns the full built-in achievement set. IDs are
// stable: they appear in save files and must never be renamed.
func buildRegistry() []Achievement {
	return []Achievement{

		// Progress
		{
			ID: "first_crack", Title: "First Crack",
			Description: "Break your first hash.",
			Category:    CategoryProgress, Rarity: RarityCommon,
			Trigger: TriggerFirstSuccess, Points: 10,
		},
		{
			ID: "apprentice", Title: "Apprentice Cracker",
			Description: "Complete 5 encounters.",
			Category:    CategoryProgress, Rarity: RarityCommon,
			Trigger: TriggerCompletedCount, Threshold: 5, Points: 20,
		},
		{
			ID: "journeyman", Title: "Journeyman Cracker",
			Description: "Complete 15 encounters.",
			Category:    CategoryProgress, Rarity: RarityRare,
			Trigger: TriggerCompletedCount, Threshold: 15, Points: 40,
		},
		{
			ID: "xp_1000", Title: "Seasoned Adventurer",
			Description: "Earn 1,000 lifetime XP.",
			Category:    CategoryProgress, Rarity: RarityRare,
			Trigger: TriggerLifetimeXP, Threshold: 1000, Points: 40,
		},
		{
			ID: "xp_5000", Title: "Hash Lord",
			Description: "Earn 5,000 lifetime XP.",
			Category:    CategoryProgress, Rarity: RarityEpic,
			Trigger: TriggerLifetimeXP, Threshold: 5000, Points: 80,
		},

		// Mastery
		{
			ID: "lightning", Title: "Lightning Fingers",
			Description: "Solve an encounter in under 30 seconds.",
			Category:    CategoryMastery, Rarity: RarityRare,
			Trigger: TriggerSpeedSolve, Threshold: 30, Points: 30,
		},
		{
			ID: "clean_hands", Title: "Clean Hands",
			Description: "Rack up 5 first-try, hint-free solves.",
			Category:    CategoryMastery, Rarity: RarityRare,
			Trigger: TriggerCleanSolves, Threshold: 5, Points: 40,
		},
		{
			ID: "spotless", Title: "Spotless Record",
			Description: "Rack up 15 first-try, hint-free solves.",
			Category:    CategoryMastery, Rarity: RarityEpic,
			Trigger: TriggerCleanSolves, Threshold: 15, Points: 80,
		},
		{
			ID: "no_hints", Title: "Self-Taught",
			Description: "Finish a chapter without touching a hint.",
			Category:    CategoryMastery, Rarity: RarityRare,
			Trigger: TriggerHintFreeChapter, Points: 30,
		},
		{
			ID: "oracle", Title: "The Oracle",
			Description: "Pick the right path at every fork in the campaign.",
			Category:    CategoryMastery, Rarity: RarityEpic,
			Trigger: TriggerPerfectForks, Points: 60,
		},

		// Survival
		{
			ID: "first_fall", Title: "Everyone Falls",
			Description: "Fail an encounter for the first time.",
			Category:    CategorySurvival, Rarity: RarityCommon,
			Trigger: TriggerFirstDeath, Secret: true, Points: 5,
		},
		{
			ID: "persistent", Title: "Stubborn as a Mule",
			Description: "Fail 10 times and keep playing.",
			Category:    CategorySurvival, Rarity: RarityCommon,
			Trigger: TriggerDeathCount, Threshold: 10, Secret: true, Points: 15,
		},
		{
			ID: "untouchable", Title: "Untouchable",
			Description: "Clear a chapter without a single failure.",
			Category:    CategorySurvival, Rarity: RarityRare,
			Trigger: TriggerChapterFlawless, Points: 40,
		},
		{
			ID: "immortal", Title: "Immortal Run",
			Description: "Clear the whole campaign without a single failure.",
			Category:    CategorySurvival, Rarity: RarityLegendary,
			Trigger: TriggerCampaignFlawless, Points: 120,
		},

		// Dedication
		{
			ID: "finisher", Title: "Campaign Finisher",
			Description: "See a campaign through to the end.",
			Category:    CategoryDedicated, Rarity: RarityRare,
			Trigger: TriggerCampaignComplete, Points: 50,
		},
		{
			ID: "purist", Title: "Terminal Purist",
			Description: "Finish a campaign in text-only rogue mode.",
			Category:    CategoryDedicated, Rarity: RarityEpic,
			Trigger: TriggerRogueComplete, Secret: true, Points: 60,
		},
	}
}
