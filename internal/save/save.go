// Package save persists PlayerState as one YAML document per
// (campaign, player) pair. It knows nothing about the state machine's
// in-memory invariants; it only round-trips fields exactly.
package save

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"hashquest/internal/adventure"
)

// Store reads and writes save documents under one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(campaignID, player string) string {
	name := fmt.Sprintf("%s-%s.yaml", sanitize(campaignID), sanitize(player))
	return filepath.Join(s.dir, name)
}

// sanitize keeps save file names portable across filesystems.
func sanitize(v string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(v) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Save writes the state atomically: the document lands in a temp file
// first and is renamed into place, so a crash mid-write can never leave
// a truncated save that still parses.
func (s *Store) Save(state *adventure.PlayerState) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}

	final := s.path(state.CampaignID, state.Player)
	tmp, err := os.CreateTemp(s.dir, ".save-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load reads the save for one (campaign, player) pair.
func (s *Store) Load(campaignID, player string) (*adventure.PlayerState, error) {
	data, err := os.ReadFile(s.path(campaignID, player))
	if err != nil {
		return nil, err
	}
	var state adventure.PlayerState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse save: %w", err)
	}
	return &state, nil
}

// Exists reports whether a save document is present.
func (s *Store) Exists(campaignID, player string) bool {
	_, err := os.Stat(s.path(campaignID, player))
	return err == nil
}

// Delete removes the save document; called when a campaign completes.
// A missing file is not an error.
func (s *Store) Delete(campaignID, player string) error {
	err := os.Remove(s.path(campaignID, player))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the save file names currently on disk.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
