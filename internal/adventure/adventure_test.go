package adventure

import (
	"testing"
	"time"

	"hashquest/internal/achievement"
	"hashquest/internal/content"
)

// twoChapterCampaign: c1 is e1 -> e2(checkpoint) -> e3(fork) -> e4(end),
// c2 is a lone boss.
func twoChapterCampaign() *content.Campaign {
	c := &content.Campaign{
		ID:           "trial",
		Title:        "Trial",
		FirstChapter: "c1",
		Chapters: []content.Chapter{
			{
				ID:             "c1",
				Title:          "One",
				FirstEncounter: "e1",
				Encounters: []content.Encounter{
					{ID: "e1", Kind: content.KindInstant, Solution: "alpha", Next: "e2", XP: 10},
					{ID: "e2", Kind: content.KindLookup, Solution: "beta", Next: "e3", Checkpoint: true, XP: 20},
					{
						ID: "e3", Kind: content.KindFork, XP: 5,
						Choices: []content.Choice{
							{ID: "a", Label: "A", LeadsTo: "e4", Correct: true},
							{ID: "b", Label: "B", LeadsTo: "e1", Correct: false},
						},
					},
					{ID: "e4", Kind: content.KindGuided, XP: 30},
				},
			},
			{
				ID:             "c2",
				Title:          "Two",
				FirstEncounter: "boss",
				Encounters: []content.Encounter{
					{ID: "boss", Kind: content.KindBoss, Solution: "omega", XP: 100},
				},
			},
		},
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

func newTestAdventure(t *testing.T, c *content.Campaign) *Adventure {
	t.Helper()
	return New(c, achievement.NewEngine(), "tester")
}

func unlockedIDs(res Result) map[string]bool {
	set := map[string]bool{}
	for _, a := range res.Unlocked {
		set[a.ID] = true
	}
	return set
}

func TestSuccessAwardsAndAdvances(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())

	res := adv.RecordOutcome(Success)
	if res.Action != ActionContinue {
		t.Fatalf("action = %s, want continue", res.Action)
	}
	if res.XP != 10 || adv.State().SessionXP != 10 || adv.State().TotalXP != 10 {
		t.Errorf("xp = %d session=%d total=%d, want 10 each", res.XP, adv.State().SessionXP, adv.State().TotalXP)
	}
	if adv.CurrentEncounter().ID != "e2" {
		t.Errorf("cursor = %s, want e2", adv.CurrentEncounter().ID)
	}
	if !adv.State().hasCompleted("e1") {
		t.Error("e1 not in completed set")
	}
	if !unlockedIDs(res)["first_crack"] {
		t.Error("first success should unlock first_crack")
	}
}

func TestSuccessOnCheckpointSetsCheckpoint(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success) // e1 -> e2

	checkpointSeen := false
	adv.Events().Subscribe(EventCheckpointReached, func(p Payload) {
		checkpointSeen = true
	})

	adv.RecordOutcome(Success) // e2 -> e3
	if adv.State().LastCheckpoint != "e2" {
		t.Errorf("last_checkpoint = %q, want e2", adv.State().LastCheckpoint)
	}
	if !checkpointSeen {
		t.Error("checkpoint event not published")
	}
}

func TestReplayedSuccessAwardsNothing(t *testing.T) {
	c := twoChapterCampaign()
	adv := newTestAdventure(t, c)
	adv.RecordOutcome(Success)       // e1 done
	adv.RecordOutcome(Success)       // e2 done, checkpoint
	adv.MakeChoice("b")              // wrong branch: failure at e3
	adv.RetryFromCheckpoint()        // back to e2
	res := adv.RecordOutcome(Success) // replay e2

	if res.XP != 0 {
		t.Errorf("replayed success awarded %d XP, want 0", res.XP)
	}
	if adv.State().TotalXP != 30 {
		t.Errorf("total xp = %d, want 30", adv.State().TotalXP)
	}
	if len(adv.State().Completed) != 2 {
		t.Errorf("completed = %v, want 2 unique entries", adv.State().Completed)
	}
}

func TestFailureLeavesCursorAndOffersOptions(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())

	res := adv.RecordOutcome(Failure)
	if res.Action != ActionGameOver {
		t.Fatalf("action = %s, want game_over", res.Action)
	}
	if adv.CurrentEncounter().ID != "e1" {
		t.Errorf("failure moved cursor to %s", adv.CurrentEncounter().ID)
	}
	want := []RecoveryOption{OptionStartOver, OptionLeave}
	if len(res.Options) != len(want) || res.Options[0] != want[0] || res.Options[1] != want[1] {
		t.Errorf("options = %v, want %v", res.Options, want)
	}
	if adv.State().Deaths != 1 || adv.State().ChapterDeaths["c1"] != 1 {
		t.Errorf("death counters = %d/%d, want 1/1", adv.State().Deaths, adv.State().ChapterDeaths["c1"])
	}
}

func TestFailureOptionOrdering(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success) // e1 -> e2
	adv.RecordOutcome(Success) // e2 -> e3, checkpoint recorded
	adv.MakeChoice("b")        // records fork, fails

	res := adv.RecordOutcome(Failure)
	want := []RecoveryOption{OptionRetryCheckpoint, OptionRetryFork, OptionStartOver, OptionLeave}
	if len(res.Options) != len(want) {
		t.Fatalf("options = %v, want %v", res.Options, want)
	}
	for i := range want {
		if res.Options[i] != want[i] {
			t.Errorf("options[%d] = %s, want %s", i, res.Options[i], want[i])
		}
	}
}

func TestWrongChoiceIsFailure(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)
	adv.RecordOutcome(Success) // at e3 now

	res := adv.MakeChoice("b")
	if res.Action != ActionGameOver {
		t.Fatalf("wrong choice action = %s, want game_over", res.Action)
	}
	if adv.State().LastFork != "e3" {
		t.Errorf("last_fork = %q, want e3", adv.State().LastFork)
	}
	if adv.State().ChoiceHistory["e3"] != "b" {
		t.Errorf("choice_history[e3] = %q, want b", adv.State().ChoiceHistory["e3"])
	}
	if adv.CurrentEncounter().ID != "e3" {
		t.Errorf("wrong choice moved cursor to %s", adv.CurrentEncounter().ID)
	}
}

func TestChoiceRetryOverwritesHistory(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)
	adv.RecordOutcome(Success)

	adv.MakeChoice("b")
	adv.RetryFromFork()
	res := adv.MakeChoice("a")
	if res.Action != ActionContinue {
		t.Fatalf("correct choice action = %s, want continue", res.Action)
	}
	if adv.State().ChoiceHistory["e3"] != "a" {
		t.Errorf("retried choice not overwritten: %q", adv.State().ChoiceHistory["e3"])
	}
	if adv.CurrentEncounter().ID != "e4" {
		t.Errorf("cursor = %s, want e4", adv.CurrentEncounter().ID)
	}
}

func TestMakeChoiceErrors(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())

	res := adv.MakeChoice("a")
	if res.Action != ActionError {
		t.Errorf("choice on non-fork = %s, want error", res.Action)
	}

	adv.RecordOutcome(Success)
	adv.RecordOutcome(Success)
	res = adv.MakeChoice("zzz")
	if res.Action != ActionError {
		t.Errorf("unknown choice = %s, want error", res.Action)
	}
	if adv.State().LastFork != "" {
		t.Errorf("unknown choice recorded a fork: %q", adv.State().LastFork)
	}
}

func TestRetryWithoutRecoveryPoint(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())

	res := adv.RetryFromCheckpoint()
	if res.Action != ActionError {
		t.Errorf("retry without checkpoint = %s, want error", res.Action)
	}
	res = adv.RetryFromFork()
	if res.Action != ActionError {
		t.Errorf("retry without fork = %s, want error", res.Action)
	}
	if adv.CurrentEncounter().ID != "e1" {
		t.Errorf("failed retry moved cursor to %s", adv.CurrentEncounter().ID)
	}
}

func TestStartOverKeepsCheckpointClearsFork(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)
	adv.RecordOutcome(Success)
	adv.MakeChoice("b") // fork + failure

	adv.StartOver()
	if adv.CurrentEncounter().ID != "e1" {
		t.Errorf("cursor = %s, want e1", adv.CurrentEncounter().ID)
	}
	if adv.State().LastFork != "" {
		t.Errorf("start over kept fork %q", adv.State().LastFork)
	}
	if adv.State().LastCheckpoint != "e2" {
		t.Errorf("start over dropped checkpoint, have %q", adv.State().LastCheckpoint)
	}
}

func TestChapterTransition(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)
	adv.RecordOutcome(Success)
	adv.MakeChoice("a")

	res := adv.RecordOutcome(Success) // e4: end of c1
	if res.Action != ActionChapterComplete {
		t.Fatalf("action = %s, want chapter_complete", res.Action)
	}
	if adv.CurrentChapter().ID != "c2" || adv.CurrentEncounter().ID != "boss" {
		t.Errorf("cursor = %s/%s, want c2/boss", adv.CurrentChapter().ID, adv.CurrentEncounter().ID)
	}
	if !unlockedIDs(res)["untouchable"] {
		t.Error("flawless chapter should unlock untouchable")
	}
}

func TestCampaignCompletion(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)
	adv.RecordOutcome(Success)
	adv.MakeChoice("a")
	adv.RecordOutcome(Success)

	completed := 0
	adv.Events().Subscribe(EventCampaignCompleted, func(p Payload) { completed++ })

	res := adv.RecordOutcome(Success) // boss
	if res.Action != ActionCampaignComplete {
		t.Fatalf("action = %s, want campaign_complete", res.Action)
	}
	if !adv.IsComplete() {
		t.Error("IsComplete() = false after terminal success")
	}
	got := unlockedIDs(res)
	if !got["finisher"] || !got["immortal"] || !got["oracle"] {
		t.Errorf("completion unlocks = %v, want finisher+immortal+oracle", got)
	}
	if completed != 1 {
		t.Errorf("campaign_completed published %d times, want 1", completed)
	}

	// Replaying the terminal encounter must not re-run completion
	// unlocks or re-award XP.
	res = adv.RecordOutcome(Success)
	if res.XP != 0 || len(res.Unlocked) != 0 {
		t.Errorf("replayed terminal success awarded xp=%d unlocks=%v", res.XP, res.Unlocked)
	}
	if completed != 2 {
		t.Errorf("campaign_completed published %d times total, want 2 (event repeats, unlocks do not)", completed)
	}
}

func TestSingleEncounterCampaign(t *testing.T) {
	c := &content.Campaign{
		ID: "tiny", Title: "Tiny", FirstChapter: "c1",
		Chapters: []content.Chapter{{
			ID: "c1", Title: "Only", FirstEncounter: "only",
			Encounters: []content.Encounter{
				{ID: "only", Kind: content.KindInstant, Solution: "x", XP: 10},
			},
		}},
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	adv := newTestAdventure(t, c)

	res := adv.RecordOutcome(Success)
	if res.Action != ActionCampaignComplete {
		t.Fatalf("action = %s, want campaign_complete", res.Action)
	}
	if !adv.IsComplete() {
		t.Error("IsComplete() = false")
	}
}

func TestBossAttemptExhaustion(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)
	adv.RecordOutcome(Success) // checkpoint at e2
	adv.MakeChoice("a")
	adv.RecordOutcome(Success) // into c2, at boss

	first := adv.RecordOutcome(Failure)
	if first.Options[0] != OptionRetryCheckpoint {
		t.Errorf("first boss failure options = %v, should still offer checkpoint", first.Options)
	}
	adv.RecordOutcome(Failure)
	third := adv.RecordOutcome(Failure)
	want := []RecoveryOption{OptionStartOver, OptionLeave}
	if len(third.Options) != 2 || third.Options[0] != want[0] || third.Options[1] != want[1] {
		t.Errorf("exhausted boss options = %v, want %v", third.Options, want)
	}
}

func TestPartialAndSkip(t *testing.T) {
	c := twoChapterCampaign()
	c.Chapters[0].Encounters[0].XP = 25 // odd halves floor
	adv := newTestAdventure(t, c)

	res := adv.RecordOutcome(Partial)
	if res.XP != 12 || adv.State().SessionXP != 12 {
		t.Errorf("partial xp = %d/%d, want 12", res.XP, adv.State().SessionXP)
	}
	if adv.CurrentEncounter().ID != "e2" {
		t.Errorf("partial did not advance, cursor %s", adv.CurrentEncounter().ID)
	}
	if len(adv.State().Completed) != 0 {
		t.Errorf("partial touched completed set: %v", adv.State().Completed)
	}

	res = adv.RecordOutcome(Skip)
	if res.XP != 0 || adv.State().SessionXP != 12 {
		t.Errorf("skip awarded xp: %d", adv.State().SessionXP)
	}
	if adv.CurrentEncounter().ID != "e3" {
		t.Errorf("skip did not advance, cursor %s", adv.CurrentEncounter().ID)
	}
	if adv.State().LastCheckpoint != "" {
		t.Errorf("skip set a checkpoint: %q", adv.State().LastCheckpoint)
	}
}

func TestCursorAlwaysInCurrentChapter(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	steps := []func() Result{
		func() Result { return adv.RecordOutcome(Success) },
		func() Result { return adv.RecordOutcome(Failure) },
		func() Result { return adv.RecordOutcome(Success) },
		func() Result { return adv.MakeChoice("b") },
		func() Result { return adv.RetryFromCheckpoint() },
		func() Result { return adv.RecordOutcome(Success) },
		func() Result { return adv.MakeChoice("a") },
		func() Result { return adv.RecordOutcome(Success) },
	}
	for i, step := range steps {
		step()
		if adv.CurrentChapter().Encounter(adv.CurrentEncounter().ID) == nil {
			t.Fatalf("after step %d cursor %s not in chapter %s", i, adv.State().EncounterID, adv.State().ChapterID)
		}
	}
}

func TestSubscriberPanicIsSwallowed(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())

	adv.Events().Subscribe(EventEncounterSuccess, func(p Payload) {
		panic("broken telemetry hook")
	})
	calls := 0
	adv.Events().Subscribe(EventEncounterSuccess, func(p Payload) { calls++ })

	res := adv.RecordOutcome(Success)
	if res.Action != ActionContinue {
		t.Fatalf("panicking subscriber corrupted the transition: %s", res.Action)
	}
	if calls != 1 {
		t.Errorf("later subscriber called %d times, want 1", calls)
	}
	if adv.State().SessionXP != 10 {
		t.Errorf("state corrupted by subscriber panic: xp=%d", adv.State().SessionXP)
	}
}

func TestHintCharges(t *testing.T) {
	c := twoChapterCampaign()
	c.Chapters[0].Encounters[0].Hint = "look up"
	adv := newTestAdventure(t, c)

	if hint := adv.UseHint(); hint != "look up" {
		t.Errorf("hint = %q", hint)
	}
	if adv.State().HintsUsed != 1 || adv.State().ChapterHints["c1"] != 1 {
		t.Errorf("hint counters = %d/%d, want 1/1", adv.State().HintsUsed, adv.State().ChapterHints["c1"])
	}

	// Success after a hint is not a clean solve.
	adv.RecordOutcome(Success)
	if adv.State().CleanSolves != 0 {
		t.Errorf("hinted solve counted clean: %d", adv.State().CleanSolves)
	}
	// The next one, first try and hint-free, is.
	adv.RecordOutcome(Success)
	if adv.State().CleanSolves != 1 {
		t.Errorf("clean solves = %d, want 1", adv.State().CleanSolves)
	}
}

func TestSpeedUnlockUsesClock(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	adv := New(twoChapterCampaign(), achievement.NewEngine(), "tester", WithClock(clock))

	now = now.Add(2 * time.Minute) // slower than the speed threshold
	res := adv.RecordOutcome(Success)
	if unlockedIDs(res)["lightning"] {
		t.Error("slow solve unlocked the speed achievement")
	}

	now = now.Add(5 * time.Second)
	res = adv.RecordOutcome(Success)
	if !unlockedIDs(res)["lightning"] {
		t.Error("fast solve did not unlock the speed achievement")
	}
}

func TestResumeValidatesCursor(t *testing.T) {
	c := twoChapterCampaign()
	eng := achievement.NewEngine()

	state := &PlayerState{CampaignID: "trial", ChapterID: "c1", EncounterID: "ghost"}
	if _, err := Resume(c, eng, state); err == nil {
		t.Error("resume accepted a dangling encounter cursor")
	}

	state = &PlayerState{CampaignID: "other", ChapterID: "c1", EncounterID: "e1"}
	if _, err := Resume(c, eng, state); err == nil {
		t.Error("resume accepted a save from another campaign")
	}

	state = &PlayerState{CampaignID: "trial", ChapterID: "c1", EncounterID: "e2"}
	adv, err := Resume(c, eng, state)
	if err != nil {
		t.Fatalf("valid resume failed: %v", err)
	}
	if adv.CurrentEncounter().ID != "e2" {
		t.Errorf("resumed cursor = %s, want e2", adv.CurrentEncounter().ID)
	}
}

func TestProgressSummary(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)
	adv.RecordOutcome(Failure)

	p := adv.Progress()
	if p.Completed != 1 || p.Total != 5 {
		t.Errorf("progress = %d/%d, want 1/5", p.Completed, p.Total)
	}
	if p.Deaths != 1 || p.SessionXP != 10 {
		t.Errorf("deaths=%d xp=%d, want 1/10", p.Deaths, p.SessionXP)
	}

	// Read-only: calling it twice changes nothing.
	again := adv.Progress()
	if again != p {
		t.Errorf("progress summary not stable: %+v vs %+v", p, again)
	}
}

func TestAchievementsListing(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())

	for _, a := range adv.Achievements() {
		if a.Secret {
			t.Errorf("secret achievement %q listed before unlock", a.ID)
		}
	}

	adv.RecordOutcome(Failure) // unlocks the secret first-death achievement
	found := false
	for _, a := range adv.Achievements() {
		if a.ID == "first_fall" {
			found = true
		}
	}
	if !found {
		t.Error("earned secret achievement missing from listing")
	}
}

func TestUnlockLogRecords(t *testing.T) {
	adv := newTestAdventure(t, twoChapterCampaign())
	adv.RecordOutcome(Success)

	if len(adv.State().UnlockLog) == 0 {
		t.Fatal("no unlock records written")
	}
	rec := adv.State().UnlockLog[0]
	if rec.AchievementID != "first_crack" || rec.CampaignID != "trial" || rec.EncounterID != "e1" {
		t.Errorf("unlock record = %+v", rec)
	}
	if rec.UnlockedAt.IsZero() {
		t.Error("unlock record missing timestamp")
	}
}
