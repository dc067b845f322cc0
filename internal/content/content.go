// Package content holds the immutable campaign definition: chapters,
// encounters, choices and their validation targets. A campaign is loaded
// once from YAML, validated, and never mutated afterwards.
package content

// Kind classifies an encounter's gameplay shape.
type Kind string

const (
	KindInstant     Kind = "instant"     // single instant answer check
	KindLookup      Kind = "lookup"      // look the answer up (rainbow-table style)
	KindGuided      Kind = "guided"      // guided tour, narrative-heavy
	KindWalkthrough Kind = "walkthrough" // step-by-step tutorial beat
	KindHunt        Kind = "hunt"        // exploration / scavenger hunt
	KindRace        Kind = "race"        // timed race against the clock
	KindFork        Kind = "fork"        // branching choice
	KindRisk        Kind = "risk"        // risk/reward choice
	KindChain       Kind = "chain"       // puzzle chain
	KindBoss        Kind = "boss"        // boss duel, attempt-limited
	KindRepair      Kind = "repair"      // fix a broken artifact
	KindPipeline    Kind = "pipeline"    // multi-step pipeline
)

// HashAlgo identifies one of the supported digest algorithms.
type HashAlgo string

const (
	AlgoMD5    HashAlgo = "md5"
	AlgoSHA1   HashAlgo = "sha1"
	AlgoSHA256 HashAlgo = "sha256"
	AlgoSHA512 HashAlgo = "sha512"
)

// DefaultBossAttempts is the attempt limit for boss encounters that do
// not declare their own.
const DefaultBossAttempts = 3

// Campaign is the top-level content container.
type Campaign struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Description  string    `yaml:"description"`
	FirstChapter string    `yaml:"first_chapter"`
	Chapters     []Chapter `yaml:"chapters"`
}

// Chapter groups an ordered run of encounters.
type Chapter struct {
	ID             string      `yaml:"id"`
	Title          string      `yaml:"title"`
	FirstEncounter string      `yaml:"first_encounter"`
	Encounters     []Encounter `yaml:"encounters"`
}

// Encounter is the atomic challenge unit. Exactly one of Hash or
// Solution may be set (hash-based vs plaintext validation), and exactly
// one of Next or Choices unless the encounter is the terminal one.
type Encounter struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Kind        Kind     `yaml:"kind"`
	Intro       string   `yaml:"intro"`
	Objective   string   `yaml:"objective"`
	SuccessText string   `yaml:"success_text"`
	FailureText string   `yaml:"failure_text"`
	Hint        string   `yaml:"hint,omitempty"`
	Hash        string   `yaml:"hash,omitempty"`
	Algo        HashAlgo `yaml:"algo,omitempty"`
	Solution    string   `yaml:"solution,omitempty"`
	Next        string   `yaml:"next,omitempty"`
	Choices     []Choice `yaml:"choices,omitempty"`
	Checkpoint  bool     `yaml:"checkpoint,omitempty"`
	Tier        int      `yaml:"tier"`
	XP          int      `yaml:"xp"`
	MaxAttempts int      `yaml:"max_attempts,omitempty"`
}

// Choice is one branch option at a fork encounter.
type Choice struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	LeadsTo string `yaml:"leads_to"`
	Correct bool   `yaml:"correct"`
}

// IsFork reports whether the encounter branches through choices.
func (e *Encounter) IsFork() bool { return len(e.Choices) > 0 }

// HasTarget reports whether the encounter validates a typed answer.
func (e *Encounter) HasTarget() bool { return e.Hash != "" || e.Solution != "" }

// AttemptLimit returns the boss attempt limit, or 0 for unlimited.
func (e *Encounter) AttemptLimit() int {
	if e.Kind != KindBoss {
		return 0
	}
	if e.MaxAttempts > 0 {
		return e.MaxAttempts
	}
	return DefaultBossAttempts
}

// Choice returns the choice with the given id, or nil.
func (e *Encounter) Choice(id string) *Choice {
	for i := range e.Choices {
		if e.Choices[i].ID == id {
			return &e.Choices[i]
		}
	}
	return nil
}

// Chapter returns the chapter with the given id, or nil.
func (c *Campaign) Chapter(id string) *Chapter {
	for i := range c.Chapters {
		if c.Chapters[i].ID == id {
			return &c.Chapters[i]
		}
	}
	return nil
}

// Encounter returns the encounter with the given id, or nil.
func (ch *Chapter) Encounter(id string) *Encounter {
	for i := range ch.Encounters {
		if ch.Encounters[i].ID == id {
			return &ch.Encounters[i]
		}
	}
	return nil
}

// ChapterAfter returns the chapter following the given one in campaign
// order, or nil if it is the last.
func (c *Campaign) ChapterAfter(id string) *Chapter {
	for i := range c.Chapters {
		if c.Chapters[i].ID == id && i+1 < len(c.Chapters) {
			return &c.Chapters[i+1]
		}
	}
	return nil
}

// TotalEncounters counts every encounter across all chapters.
func (c *Campaign) TotalEncounters() int {
	n := 0
	for i := range c.Chapters {
		n += len(c.Chapters[i].Encounters)
	}
	return n
}

// IsTerminal reports whether the given position is a dead-end encounter
// of the last chapter, i.e. completing it finishes the campaign.
func (c *Campaign) IsTerminal(chapterID, encounterID string) bool {
	if len(c.Chapters) == 0 {
		return false
	}
	last := &c.Chapters[len(c.Chapters)-1]
	if last.ID != chapterID {
		return false
	}
	enc := last.Encounter(encounterID)
	return enc != nil && enc.Next == "" && !enc.IsFork()
}
