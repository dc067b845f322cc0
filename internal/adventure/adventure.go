// Package adventure implements the campaign progression state machine:
// it owns the player's cursor and counters, applies encounter outcomes,
// manages checkpoint and fork recovery, and evaluates achievements as a
// side effect of transitions.
package adventure

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hashquest/internal/achievement"
	"hashquest/internal/content"
	"hashquest/internal/hashcheck"
)

// Adventure drives one player through one campaign. It is the only
// code allowed to mutate the PlayerState it owns.
type Adventure struct {
	campaign *content.Campaign
	state    *PlayerState
	engine   *achievement.Engine
	events   *Events
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures an Adventure at construction time.
type Option func(*Adventure)

// WithLogger routes collaborator-failure and transition logging.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Adventure) { a.log = log }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Adventure) { a.now = now }
}

// WithRogueMode marks the run as text-only play.
func WithRogueMode() Option {
	return func(a *Adventure) { a.state.RogueMode = true }
}

// New starts a fresh run: the cursor points at the first chapter's
// first encounter. The campaign must already be validated.
func New(c *content.Campaign, engine *achievement.Engine, player string, opts ...Option) *Adventure {
	first := c.Chapter(c.FirstChapter)
	a := &Adventure{
		campaign: c,
		engine:   engine,
		events:   nil,
		log:      zerolog.Nop(),
		now:      time.Now,
		state: &PlayerState{
			Player:        player,
			CampaignID:    c.ID,
			ChapterID:     first.ID,
			EncounterID:   first.FirstEncounter,
			ChoiceHistory: map[string]string{},
			ChapterDeaths: map[string]int{},
			ChapterHints:  map[string]int{},
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.events = newEvents(a.log)
	now := a.now()
	a.state.StartedAt = now
	a.state.UpdatedAt = now
	a.state.EncounterStartedAt = now
	return a
}

// Resume rebuilds an Adventure around a restored PlayerState. The
// cursor must still resolve against the campaign, otherwise the save
// belongs to different content and is rejected.
func Resume(c *content.Campaign, engine *achievement.Engine, state *PlayerState, opts ...Option) (*Adventure, error) {
	if state.CampaignID != c.ID {
		return nil, fmt.Errorf("save belongs to campaign %q, not %q", state.CampaignID, c.ID)
	}
	ch := c.Chapter(state.ChapterID)
	if ch == nil {
		return nil, fmt.Errorf("save cursor: unknown chapter %q", state.ChapterID)
	}
	if ch.Encounter(state.EncounterID) == nil {
		return nil, fmt.Errorf("save cursor: unknown encounter %q in chapter %q", state.EncounterID, state.ChapterID)
	}
	if state.ChoiceHistory == nil {
		state.ChoiceHistory = map[string]string{}
	}
	if state.ChapterDeaths == nil {
		state.ChapterDeaths = map[string]int{}
	}
	if state.ChapterHints == nil {
		state.ChapterHints = map[string]int{}
	}
	a := &Adventure{
		campaign: c,
		state:    state,
		engine:   engine,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.events = newEvents(a.log)
	a.state.EncounterStartedAt = a.now()
	return a, nil
}

// Campaign returns the immutable content this run plays through.
func (a *Adventure) Campaign() *content.Campaign { return a.campaign }

// State exposes the player state for persistence. Callers must treat
// it as read-only; all mutation goes through Adventure methods.
func (a *Adventure) State() *PlayerState { return a.state }

// Events returns the subscription surface for lifecycle events.
func (a *Adventure) Events() *Events { return a.events }

// CurrentChapter returns the chapter the cursor points into.
func (a *Adventure) CurrentChapter() *content.Chapter {
	return a.campaign.Chapter(a.state.ChapterID)
}

// CurrentEncounter returns the encounter the cursor points at.
func (a *Adventure) CurrentEncounter() *content.Encounter {
	return a.CurrentChapter().Encounter(a.state.EncounterID)
}

// IsComplete reports whether the run has finished: the cursor rests on
// a terminal encounter of the last chapter and that encounter has been
// completed.
func (a *Adventure) IsComplete() bool {
	return a.campaign.IsTerminal(a.state.ChapterID, a.state.EncounterID) &&
		a.state.hasCompleted(a.state.EncounterID)
}

// ValidateAnswer checks a typed answer against the current encounter's
// declared target. It has no side effects; feed the verdict back via
// RecordOutcome.
func (a *Adventure) ValidateAnswer(text string) bool {
	return hashcheck.Check(text, a.CurrentEncounter())
}

// UseHint reveals the current encounter's hint, charging the hint
// counters. Returns an empty string when no hint exists.
func (a *Adventure) UseHint() string {
	enc := a.CurrentEncounter()
	if enc.Hint == "" {
		return ""
	}
	a.state.HintsUsed++
	a.state.ChapterHints[a.state.ChapterID]++
	a.state.HintUsedHere = true
	a.state.UpdatedAt = a.now()
	a.publish(EventHintUsed, nil)
	return enc.Hint
}

// ProgressSummary is the read-only snapshot shown on the status panel.
type ProgressSummary struct {
	Completed    int
	Total        int
	SessionXP    int
	TotalXP      int
	Deaths       int
	Achievements int
}

// Achievements returns the listing surface for this player: every
// non-secret achievement plus the secret ones already earned.
func (a *Adventure) Achievements() []achievement.Achievement {
	return a.engine.Visible(a.state.unlockedSet())
}

// Progress reports completion and counters without side effects.
func (a *Adventure) Progress() ProgressSummary {
	return ProgressSummary{
		Completed:    len(a.state.Completed),
		Total:        a.campaign.TotalEncounters(),
		SessionXP:    a.state.SessionXP,
		TotalXP:      a.state.TotalXP,
		Deaths:       a.state.Deaths,
		Achievements: len(a.state.Unlocked),
	}
}

// moveCursor repositions the cursor inside the given chapter and
// resets the per-encounter trackers.
func (a *Adventure) moveCursor(chapterID, encounterID string) {
	a.state.ChapterID = chapterID
	a.state.EncounterID = encounterID
	a.state.Attempts = 0
	a.state.HintUsedHere = false
	a.state.EncounterStartedAt = a.now()
	a.publish(EventEncounterStarted, nil)
}

// chapterOf finds the chapter containing the given encounter id.
// Recovery targets may live in an earlier chapter than the cursor.
func (a *Adventure) chapterOf(encounterID string) *content.Chapter {
	for i := range a.campaign.Chapters {
		if a.campaign.Chapters[i].Encounter(encounterID) != nil {
			return &a.campaign.Chapters[i]
		}
	}
	return nil
}

func (a *Adventure) publish(e Event, extra func(*Payload)) {
	p := Payload{
		Event:       e,
		CampaignID:  a.state.CampaignID,
		ChapterID:   a.state.ChapterID,
		EncounterID: a.state.EncounterID,
	}
	if extra != nil {
		extra(&p)
	}
	a.events.publish(p)
}

// checkTrigger asks the achievement engine about one trigger and
// records any new unlocks in the player state. The unlocked-set check
// happens here, before delegation, so an achievement can never be
// appended twice.
func (a *Adventure) checkTrigger(tr achievement.Trigger, value int) []achievement.Achievement {
	newly := a.engine.Check(tr, value, achievement.Context{Unlocked: a.state.unlockedSet()})
	ts := a.now()
	for _, ach := range newly {
		if a.state.hasUnlocked(ach.ID) {
			continue
		}
		a.state.Unlocked = append(a.state.Unlocked, ach.ID)
		a.state.UnlockLog = append(a.state.UnlockLog, UnlockRecord{
			AchievementID: ach.ID,
			UnlockedAt:    ts,
			CampaignID:    a.state.CampaignID,
			EncounterID:   a.state.EncounterID,
		})
		a.log.Info().Str("achievement", ach.ID).Msg("achievement unlocked")
	}
	return newly
}

// perfectForks reports whether every fork choice recorded over the
// whole run picked a correct branch. Forks the player never reached do
// not disqualify; a wrong pick at any visited fork does.
func (a *Adventure) perfectForks() bool {
	for i := range a.campaign.Chapters {
		ch := &a.campaign.Chapters[i]
		for j := range ch.Encounters {
			enc := &ch.Encounters[j]
			if !enc.IsFork() {
				continue
			}
			chosen, ok := a.state.ChoiceHistory[enc.ID]
			if !ok {
				continue
			}
			opt := enc.Choice(chosen)
			if opt == nil || !opt.Correct {
				return false
			}
		}
	}
	return true
}
