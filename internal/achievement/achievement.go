// Package achievement defines the static achievement registry and the
// engine that evaluates unlock triggers against player counters.
package achievement

// Category groups related achievements on the listing screen.
type Category string

const (
	CategoryProgress  Category = "progress"
	CategoryMastery   Category = "mastery"
	CategorySurvival  Category = "survival"
	CategoryDedicated Category = "dedication"
)

// Rarity signals how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Trigger names the game event or counter an achievement listens to.
type Trigger string

const (
	// Flag triggers fire on their first occurrence; Threshold is unused.
	TriggerFirstSuccess     Trigger = "first_success"
	TriggerFirstDeath       Trigger = "first_death"
	TriggerChapterFlawless  Trigger = "chapter_flawless"
	TriggerCampaignFlawless Trigger = "campaign_flawless"
	TriggerRogueComplete    Trigger = "rogue_complete"
	TriggerCampaignComplete Trigger = "campaign_complete"
	TriggerPerfectForks     Trigger = "perfect_forks"
	TriggerHintFreeChapter  Trigger = "hint_free_chapter"

	// Counter triggers fire once the running total reaches Threshold.
	TriggerCompletedCount Trigger = "completed_count"
	TriggerDeathCount     Trigger = "death_count"
	TriggerLifetimeXP     Trigger = "lifetime_xp"
	TriggerCleanSolves    Trigger = "clean_solves"

	// TriggerSpeedSolve fires when an encounter is solved in at most
	// Threshold seconds.
	TriggerSpeedSolve Trigger = "speed_solve"
)

// Achievement is one static unlockable definition.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Rarity      Rarity
	Trigger     Trigger
	Threshold   int
	Secret      bool
	Points      int
}

// Context carries the per-player facts the engine needs to keep
// unlock evaluation idempotent.
type Context struct {
	Unlocked map[string]bool
}

// Engine evaluates triggers against the registry. It holds no player
// state; idempotence comes from the caller's unlocked set.
type Engine struct {
	registry []Achievement
}

// NewEngine returns an engine loaded with the built-in registry.
func NewEngine() *Engine {
	return &Engine{registry: buildRegistry()}
}

// All returns a copy of every registered achievement, secret or not.
func (e *Engine) All() []Achievement {
	out := make([]Achievement, len(e.registry))
	copy(out, e.registry)
	return out
}

// Get returns the achievement with the given id, or nil.
func (e *Engine) Get(id string) *Achievement {
	for i := range e.registry {
		if e.registry[i].ID == id {
			return &e.registry[i]
		}
	}
	return nil
}

// Visible returns the listing surface: every non-secret achievement
// plus any secret ones the player has already unlocked.
func (e *Engine) Visible(unlocked map[string]bool) []Achievement {
	var out []Achievement
	for _, a := range e.registry {
		if a.Secret && !unlocked[a.ID] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Check returns every achievement newly unlocked by the given trigger
// and value. Already-unlocked achievements never unlock again, so a
// counter crossing its threshold fires exactly once no matter how many
// times the trigger repeats past it.
func (e *Engine) Check(trigger Trigger, value int, ctx Context) []Achievement {
	var unlocked []Achievement
	for _, a := range e.registry {
		if a.Trigger != trigger || ctx.Unlocked[a.ID] {
			continue
		}
		if !a.satisfied(value) {
			continue
		}
		unlocked = append(unlocked, a)
	}
	return unlocked
}

func (a *Achievement) satisfied(value int) bool {
	switch a.Trigger {
	case TriggerSpeedSolve:
		return value <= a.Threshold
	case TriggerCompletedCount, TriggerDeathCount, TriggerLifetimeXP, TriggerCleanSolves:
		return value >= a.Threshold
	}
	// Flag triggers are satisfied by being raised at all.
	return true
}
