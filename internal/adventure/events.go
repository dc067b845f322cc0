package adventure

import (
	"github.com/rs/zerolog"
)

// Event names one lifecycle moment external collaborators can observe.
type Event string

const (
	EventEncounterStarted  Event = "encounter_started"
	EventHintUsed          Event = "hint_used"
	EventAttemptComplete   Event = "attempt_complete"
	EventEncounterSuccess  Event = "encounter_success"
	EventEncounterFailure  Event = "encounter_failure"
	EventCheckpointReached Event = "checkpoint_reached"
	EventChoiceMade        Event = "choice_made"
	EventChapterCompleted  Event = "chapter_completed"
	EventCampaignCompleted Event = "campaign_completed"
)

// Payload carries the context of one published event.
type Payload struct {
	Event        Event
	CampaignID   string
	ChapterID    string
	EncounterID  string
	ChoiceID     string
	XP           int
	Achievements []string
}

// Handler receives published events. Handlers must tolerate being
// called from the middle of a transition; the state they observe is
// already updated.
type Handler func(Payload)

// Events is the publish side of the lifecycle contract. Publishing
// never fails: a panicking subscriber is logged and dropped so a broken
// telemetry hook cannot corrupt a transition in progress.
type Events struct {
	log      zerolog.Logger
	handlers map[Event][]Handler
}

func newEvents(log zerolog.Logger) *Events {
	return &Events{log: log, handlers: map[Event][]Handler{}}
}

// Subscribe registers a handler for one event name.
func (ev *Events) Subscribe(e Event, h Handler) {
	ev.handlers[e] = append(ev.handlers[e], h)
}

func (ev *Events) publish(p Payload) {
	for _, h := range ev.handlers[p.Event] {
		ev.call(h, p)
	}
}

func (ev *Events) call(h Handler, p Payload) {
	defer func() {
		if r := recover(); r != nil {
			ev.log.Warn().
				Str("event", string(p.Event)).
				Interface("panic", r).
				Msg("event subscriber panicked")
		}
	}()
	h(p)
}
