package adventure

import (
	"time"
)

// PlayerState is the sole mutable entity in the game. Field names are
// stable: they form the save-file schema, and a schema change needs an
// explicit migration rather than silent default-filling.
type PlayerState struct {
	Player      string `yaml:"player"`
	CampaignID  string `yaml:"campaign_id"`
	ChapterID   string `yaml:"chapter_id"`
	EncounterID string `yaml:"encounter_id"`

	// Completed keeps insertion order and never holds duplicates.
	Completed []string `yaml:"completed"`

	LastCheckpoint string            `yaml:"last_checkpoint,omitempty"`
	LastFork       string            `yaml:"last_fork,omitempty"`
	ChoiceHistory  map[string]string `yaml:"choice_history,omitempty"`

	SessionXP int `yaml:"session_xp"`
	TotalXP   int `yaml:"total_xp"`

	Unlocked  []string       `yaml:"unlocked,omitempty"`
	UnlockLog []UnlockRecord `yaml:"unlock_log,omitempty"`

	Deaths        int            `yaml:"deaths"`
	RunDeaths     int            `yaml:"run_deaths"`
	ChapterDeaths map[string]int `yaml:"chapter_deaths,omitempty"`

	HintsUsed    int            `yaml:"hints_used"`
	ChapterHints map[string]int `yaml:"chapter_hints,omitempty"`
	CleanSolves  int            `yaml:"clean_solves"`

	// Attempts and HintUsedHere track the encounter the cursor points
	// to and reset whenever the cursor moves.
	Attempts     int  `yaml:"attempts"`
	HintUsedHere bool `yaml:"hint_used_here"`

	StartedAt          time.Time `yaml:"started_at"`
	UpdatedAt          time.Time `yaml:"updated_at"`
	EncounterStartedAt time.Time `yaml:"encounter_started_at"`

	RogueMode bool `yaml:"rogue_mode"`
}

// UnlockRecord is one append-only achievement unlock event.
type UnlockRecord struct {
	AchievementID string    `yaml:"achievement_id"`
	UnlockedAt    time.Time `yaml:"unlocked_at"`
	CampaignID    string    `yaml:"campaign_id"`
	EncounterID   string    `yaml:"encounter_id"`
}

func (s *PlayerState) hasCompleted(encounterID string) bool {
	for _, id := range s.Completed {
		if id == encounterID {
			return true
		}
	}
	return false
}

func (s *PlayerState) markCompleted(encounterID string) {
	if !s.hasCompleted(encounterID) {
		s.Completed = append(s.Completed, encounterID)
	}
}

func (s *PlayerState) hasUnlocked(achievementID string) bool {
	for _, id := range s.Unlocked {
		if id == achievementID {
			return true
		}
	}
	return false
}

func (s *PlayerState) unlockedSet() map[string]bool {
	set := make(map[string]bool, len(s.Unlocked))
	for _, id := range s.Unlocked {
		set[id] = true
	}
	return set
}
