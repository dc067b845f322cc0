package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ValidationError describes one structural problem in a campaign
// document, tied to the entity that carries it.
type ValidationError struct {
	Entity string // e.g. "encounter vault-door"
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Entity, e.Field, e.Reason)
}

func invalid(entity, field, reason string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}

var validKinds = map[Kind]bool{
	KindInstant: true, KindLookup: true, KindGuided: true,
	KindWalkthrough: true, KindHunt: true, KindRace: true,
	KindFork: true, KindRisk: true, KindChain: true,
	KindBoss: true, KindRepair: true, KindPipeline: true,
}

var validAlgos = map[HashAlgo]bool{
	AlgoMD5: true, AlgoSHA1: true, AlgoSHA256: true, AlgoSHA512: true,
}

// Load reads and validates a campaign document from a YAML file.
func Load(path string) (*Campaign, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var c Campaign
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse campaign %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the structural invariants the state machine relies
// on. A campaign that passes cannot produce a dangling cursor at
// runtime.
func (c *Campaign) Validate() error {
	ent := "campaign " + c.ID
	if c.ID == "" {
		return invalid("campaign", "id", "missing")
	}
	if c.Title == "" {
		return invalid(ent, "title", "missing")
	}
	if len(c.Chapters) == 0 {
		return invalid(ent, "chapters", "empty")
	}
	if c.Chapter(c.FirstChapter) == nil {
		return invalid(ent, "first_chapter", fmt.Sprintf("references unknown chapter %q", c.FirstChapter))
	}

	seenChapters := map[string]bool{}
	for i := range c.Chapters {
		ch := &c.Chapters[i]
		if err := c.validateChapter(ch); err != nil {
			return err
		}
		if seenChapters[ch.ID] {
			return invalid(ent, "chapters", "duplicate chapter id "+ch.ID)
		}
		seenChapters[ch.ID] = true
	}
	return nil
}

func (c *Campaign) validateChapter(ch *Chapter) error {
	ent := "chapter " + ch.ID
	if ch.ID == "" {
		return invalid("chapter", "id", "missing")
	}
	if len(ch.Encounters) == 0 {
		return invalid(ent, "encounters", "empty")
	}
	if ch.Encounter(ch.FirstEncounter) == nil {
		return invalid(ent, "first_encounter", fmt.Sprintf("references unknown encounter %q", ch.FirstEncounter))
	}

	seen := map[string]bool{}
	for i := range ch.Encounters {
		e := &ch.Encounters[i]
		if seen[e.ID] {
			return invalid(ent, "encounters", "duplicate encounter id "+e.ID)
		}
		seen[e.ID] = true
		if err := validateEncounter(ch, e); err != nil {
			return err
		}
	}

	// Every encounter must be reachable from the chapter's first
	// encounter; an unreachable one is authoring debris, not flavor.
	reached := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if reached[id] {
			return
		}
		e := ch.Encounter(id)
		if e == nil {
			return
		}
		reached[id] = true
		if e.Next != "" {
			walk(e.Next)
		}
		for _, opt := range e.Choices {
			walk(opt.LeadsTo)
		}
	}
	walk(ch.FirstEncounter)
	for i := range ch.Encounters {
		if !reached[ch.Encounters[i].ID] {
			return invalid(ent, "encounters", "encounter "+ch.Encounters[i].ID+" is unreachable from "+ch.FirstEncounter)
		}
	}
	return nil
}

func validateEncounter(ch *Chapter, e *Encounter) error {
	ent := "encounter " + e.ID
	if e.ID == "" {
		return invalid("encounter", "id", "missing")
	}
	if !validKinds[e.Kind] {
		return invalid(ent, "kind", fmt.Sprintf("unknown kind %q", e.Kind))
	}
	if e.Tier < 0 || e.Tier > 6 {
		return invalid(ent, "tier", fmt.Sprintf("must be 0-6, got %d", e.Tier))
	}
	if e.XP < 0 {
		return invalid(ent, "xp", "must not be negative")
	}
	if e.MaxAttempts < 0 {
		return invalid(ent, "max_attempts", "must not be negative")
	}

	// Hash-based and plaintext validation are mutually exclusive.
	if e.Hash != "" && e.Solution != "" {
		return invalid(ent, "hash", "hash and solution are mutually exclusive")
	}
	if e.Hash != "" && !validAlgos[e.Algo] {
		return invalid(ent, "algo", fmt.Sprintf("unsupported algorithm %q", e.Algo))
	}
	if e.Hash == "" && e.Algo != "" {
		return invalid(ent, "algo", "set without a hash target")
	}

	// Linear vs branching flow, never both. An encounter with neither
	// is the chapter's terminal beat: completing it ends the chapter.
	if e.Next != "" && e.IsFork() {
		return invalid(ent, "next", "next and choices are mutually exclusive")
	}
	if e.Next != "" && ch.Encounter(e.Next) == nil {
		return invalid(ent, "next", fmt.Sprintf("references unknown encounter %q", e.Next))
	}

	seen := map[string]bool{}
	for i := range e.Choices {
		opt := &e.Choices[i]
		if opt.ID == "" {
			return invalid(ent, "choices", "choice with missing id")
		}
		if seen[opt.ID] {
			return invalid(ent, "choices", "duplicate choice id "+opt.ID)
		}
		seen[opt.ID] = true
		if ch.Encounter(opt.LeadsTo) == nil {
			return invalid("choice "+opt.ID, "leads_to", fmt.Sprintf("references unknown encounter %q", opt.LeadsTo))
		}
	}
	return nil
}
