package adventure

import (
	"hashquest/internal/achievement"
	"hashquest/internal/content"
)

// Outcome is the verdict the rendering layer feeds back after an
// encounter attempt.
type Outcome string

const (
	Success Outcome = "success"
	Failure Outcome = "failure"
	Partial Outcome = "partial"
	Skip    Outcome = "skip"
)

// Action tells the rendering layer what kind of screen to show next.
type Action string

const (
	ActionContinue         Action = "continue"
	ActionChapterComplete  Action = "chapter_complete"
	ActionCampaignComplete Action = "campaign_complete"
	ActionGameOver         Action = "game_over"
	ActionError            Action = "error"
)

// RecoveryOption is one way out of a game-over screen.
type RecoveryOption string

const (
	OptionRetryCheckpoint RecoveryOption = "retry_checkpoint"
	OptionRetryFork       RecoveryOption = "retry_fork"
	OptionStartOver       RecoveryOption = "start_over"
	OptionLeave           RecoveryOption = "leave"
)

// Result is the outcome of one transition. Invalid input surfaces here
// as ActionError with a player-facing message, never as a panic or an
// error value the rendering layer would have to translate.
type Result struct {
	Action       Action
	Narrative    string
	XP           int
	Unlocked     []achievement.Achievement
	Options      []RecoveryOption
	ErrorMessage string
}

func errResult(msg string) Result {
	return Result{Action: ActionError, ErrorMessage: msg}
}

// RecordOutcome applies one outcome to the encounter the cursor points
// at. This is the central transition function; every cursor move,
// counter change, and achievement check flows through it or through
// MakeChoice, which delegates here on a wrong branch.
func (a *Adventure) RecordOutcome(o Outcome) Result {
	enc := a.CurrentEncounter()
	a.state.UpdatedAt = a.now()

	switch o {
	case Success:
		return a.applySuccess(enc)
	case Failure:
		return a.applyFailure(enc)
	case Partial:
		return a.applyPartial(enc)
	case Skip:
		return a.applySkip(enc)
	}
	return errResult("unknown outcome")
}

func (a *Adventure) applySuccess(enc *content.Encounter) Result {
	a.state.Attempts++
	firstTry := a.state.Attempts == 1 && !a.state.HintUsedHere

	// Replaying an already-completed encounter earns nothing; XP is
	// awarded exactly once per encounter.
	xp := 0
	if !a.state.hasCompleted(enc.ID) {
		xp = enc.XP
		a.state.SessionXP += xp
		a.state.TotalXP += xp
		a.state.markCompleted(enc.ID)
		if firstTry {
			a.state.CleanSolves++
		}
	}

	if enc.Checkpoint {
		a.state.LastCheckpoint = enc.ID
		a.publish(EventCheckpointReached, nil)
	}

	elapsed := int(a.now().Sub(a.state.EncounterStartedAt).Seconds())

	var unlocked []achievement.Achievement
	unlocked = append(unlocked, a.checkTrigger(achievement.TriggerFirstSuccess, 0)...)
	unlocked = append(unlocked, a.checkTrigger(achievement.TriggerCompletedCount, len(a.state.Completed))...)
	unlocked = append(unlocked, a.checkTrigger(achievement.TriggerLifetimeXP, a.state.TotalXP)...)
	unlocked = append(unlocked, a.checkTrigger(achievement.TriggerCleanSolves, a.state.CleanSolves)...)
	if xp > 0 {
		unlocked = append(unlocked, a.checkTrigger(achievement.TriggerSpeedSolve, elapsed)...)
	}

	a.publishAttempt(enc, xp, unlocked)
	a.publish(EventEncounterSuccess, func(p *Payload) { p.XP = xp })

	if enc.Next != "" {
		a.moveCursor(a.state.ChapterID, enc.Next)
		return Result{
			Action:    ActionContinue,
			Narrative: enc.SuccessText,
			XP:        xp,
			Unlocked:  unlocked,
		}
	}
	return a.completeChapter(enc, xp, unlocked)
}

// completeChapter handles a success on a chapter's terminal encounter:
// chapter achievements, then either the next chapter or the end of the
// campaign.
func (a *Adventure) completeChapter(enc *content.Encounter, xp int, unlocked []achievement.Achievement) Result {
	chapterID := a.state.ChapterID
	if a.state.ChapterDeaths[chapterID] == 0 {
		unlocked = append(unlocked, a.checkTrigger(achievement.TriggerChapterFlawless, 0)...)
	}
	if a.state.ChapterHints[chapterID] == 0 {
		unlocked = append(unlocked, a.checkTrigger(achievement.TriggerHintFreeChapter, 0)...)
	}
	a.publish(EventChapterCompleted, nil)

	next := a.campaign.ChapterAfter(chapterID)
	if next != nil {
		a.moveCursor(next.ID, next.FirstEncounter)
		return Result{
			Action:    ActionChapterComplete,
			Narrative: enc.SuccessText,
			XP:        xp,
			Unlocked:  unlocked,
		}
	}

	unlocked = append(unlocked, a.checkTrigger(achievement.TriggerCampaignComplete, 0)...)
	if a.state.RunDeaths == 0 {
		unlocked = append(unlocked, a.checkTrigger(achievement.TriggerCampaignFlawless, 0)...)
	}
	if a.perfectForks() {
		unlocked = append(unlocked, a.checkTrigger(achievement.TriggerPerfectForks, 0)...)
	}
	if a.state.RogueMode {
		unlocked = append(unlocked, a.checkTrigger(achievement.TriggerRogueComplete, 0)...)
	}
	a.publish(EventCampaignCompleted, nil)

	// Cursor stays on the terminal encounter; IsComplete is now true.
	return Result{
		Action:    ActionCampaignComplete,
		Narrative: enc.SuccessText,
		XP:        xp,
		Unlocked:  unlocked,
	}
}

func (a *Adventure) applyFailure(enc *content.Encounter) Result {
	a.state.Attempts++
	a.state.Deaths++
	a.state.RunDeaths++
	a.state.ChapterDeaths[a.state.ChapterID]++

	var unlocked []achievement.Achievement
	unlocked = append(unlocked, a.checkTrigger(achievement.TriggerFirstDeath, 0)...)
	unlocked = append(unlocked, a.checkTrigger(achievement.TriggerDeathCount, a.state.Deaths)...)

	a.publishAttempt(enc, 0, unlocked)
	a.publish(EventEncounterFailure, nil)

	// Boss duels burn through a fixed attempt budget; once it is spent
	// the soft recovery routes are off the table.
	options := []RecoveryOption{OptionStartOver, OptionLeave}
	limit := enc.AttemptLimit()
	if limit == 0 || a.state.Attempts < limit {
		if a.state.LastFork != "" {
			options = append([]RecoveryOption{OptionRetryFork}, options...)
		}
		if a.state.LastCheckpoint != "" {
			options = append([]RecoveryOption{OptionRetryCheckpoint}, options...)
		}
	}

	// Failure never moves the cursor.
	return Result{
		Action:    ActionGameOver,
		Narrative: enc.FailureText,
		Unlocked:  unlocked,
		Options:   options,
	}
}

func (a *Adventure) applyPartial(enc *content.Encounter) Result {
	a.state.Attempts++
	xp := enc.XP / 2
	a.state.SessionXP += xp
	a.state.TotalXP += xp

	a.publishAttempt(enc, xp, nil)

	if enc.Next != "" {
		a.moveCursor(a.state.ChapterID, enc.Next)
	}
	return Result{Action: ActionContinue, Narrative: enc.SuccessText, XP: xp}
}

func (a *Adventure) applySkip(enc *content.Encounter) Result {
	a.publishAttempt(enc, 0, nil)
	if enc.Next != "" {
		a.moveCursor(a.state.ChapterID, enc.Next)
	}
	return Result{Action: ActionContinue}
}

func (a *Adventure) publishAttempt(enc *content.Encounter, xp int, unlocked []achievement.Achievement) {
	a.publish(EventAttemptComplete, func(p *Payload) {
		p.EncounterID = enc.ID
		p.XP = xp
		for _, ach := range unlocked {
			p.Achievements = append(p.Achievements, ach.ID)
		}
	})
}

// MakeChoice resolves a fork. The fork and the chosen branch are
// recorded before correctness is judged, so retrying a fork overwrites
// the earlier pick. A wrong branch is a failure of the fork encounter
// itself, not a silent redirect.
func (a *Adventure) MakeChoice(choiceID string) Result {
	enc := a.CurrentEncounter()
	if !enc.IsFork() {
		return errResult("there is nothing to choose here")
	}
	opt := enc.Choice(choiceID)
	if opt == nil {
		return errResult("that choice doesn't exist")
	}

	a.state.UpdatedAt = a.now()
	a.state.LastFork = enc.ID
	a.state.ChoiceHistory[enc.ID] = choiceID
	a.publish(EventChoiceMade, func(p *Payload) { p.ChoiceID = choiceID })

	if !opt.Correct {
		return a.applyFailure(enc)
	}

	a.moveCursor(a.state.ChapterID, opt.LeadsTo)
	return Result{Action: ActionContinue, Narrative: enc.SuccessText}
}

// RetryFromFork rewinds the cursor to the last recorded fork. History
// and counters survive the rewind.
func (a *Adventure) RetryFromFork() Result {
	return a.rewindTo(a.state.LastFork, "no fork recorded to retry from")
}

// RetryFromCheckpoint rewinds the cursor to the last checkpoint.
// Checkpoints are campaign-scoped: the target may sit in an earlier
// chapter than the cursor.
func (a *Adventure) RetryFromCheckpoint() Result {
	return a.rewindTo(a.state.LastCheckpoint, "no checkpoint recorded to retry from")
}

func (a *Adventure) rewindTo(encounterID, missing string) Result {
	if encounterID == "" {
		return errResult(missing)
	}
	ch := a.chapterOf(encounterID)
	if ch == nil {
		return errResult(missing)
	}
	a.state.UpdatedAt = a.now()
	a.moveCursor(ch.ID, encounterID)
	return Result{Action: ActionContinue, Narrative: a.CurrentEncounter().Intro}
}

// StartOver restarts the current chapter from its first encounter. The
// fork pointer is cleared; the checkpoint survives even when it belongs
// to an earlier chapter, since it was already earned.
func (a *Adventure) StartOver() Result {
	ch := a.CurrentChapter()
	a.state.UpdatedAt = a.now()
	a.state.LastFork = ""
	a.moveCursor(ch.ID, ch.FirstEncounter)
	return Result{Action: ActionContinue, Narrative: a.CurrentEncounter().Intro}
}
