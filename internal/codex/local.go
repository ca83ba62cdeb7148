package codex

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LocalSource serves the codex from a single JSON file loaded once at
// construction. The in-memory copy is never mutated, so reads need no
// locking.
type LocalSource struct {
	entries []Entry
	byID    map[string]Entry
}

// localFile mirrors the on-disk codex.json layout.
type localFile struct {
	Modules []Entry `json:"modules"`
}

// NewLocalSource loads and indexes a codex JSON file. A missing or
// malformed file is a configuration error: fail startup, don't serve
// an empty codex.
func NewLocalSource(path string) (*LocalSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading codex %s: %w", path, err)
	}

	var file localFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing codex %s: %w", path, err)
	}

	return newMemorySource(file.Modules), nil
}

// newMemorySource indexes a pre-parsed entry list. Shared by the JSON
// and YAML sources, which differ only in decoding.
func newMemorySource(entries []Entry) *LocalSource {
	s := &LocalSource{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		e.Title = SanitizeText(e.Title)
		e.Description = SanitizeText(e.Description)
		s.entries = append(s.entries, e)
		s.byID[e.ID] = e
	}
	return s
}

// Entries returns all entries in file order.
func (s *LocalSource) Entries() ([]Entry, error) {
	return s.entries, nil
}

// EntryByID returns a single entry or ErrNotFound.
func (s *LocalSource) EntryByID(id string) (Entry, error) {
	if id == "" {
		return Entry{}, fmt.Errorf("entry id cannot be empty")
	}
	e, ok := s.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// EntryContent returns the sanitized markdown content of an entry.
func (s *LocalSource) EntryContent(id string) (string, error) {
	e, err := s.EntryByID(id)
	if err != nil {
		return "", err
	}
	return SanitizeText(e.Content), nil
}

// ModuleEntries filters entries by full module name.
func (s *LocalSource) ModuleEntries(module string) ([]Entry, error) {
	var out []Entry
	for _, e := range s.entries {
		if e.Module == module {
			out = append(out, e)
		}
	}
	return out, nil
}

// Search scans title, description, and tags for the query substring.
func (s *LocalSource) Search(query string, max int) ([]Entry, error) {
	q, err := ValidateQuery(query)
	if err != nil {
		return nil, err
	}
	lowered := strings.ToLower(q)

	var out []Entry
	for _, e := range s.entries {
		if matchesQuery(e, lowered) {
			out = append(out, e)
			if max > 0 && len(out) >= max {
				break
			}
		}
	}
	return out, nil
}

// ByTag filters entries carrying the exact tag.
func (s *LocalSource) ByTag(tag string) ([]Entry, error) {
	var out []Entry
	for _, e := range s.entries {
		for _, t := range e.Tags {
			if t == tag {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// ByType filters entries of the exact type.
func (s *LocalSource) ByType(typ string) ([]Entry, error) {
	var out []Entry
	for _, e := range s.entries {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}
