// Package codex serves the CompText knowledge base: a catalog of DSL
// command documentation organized into lettered modules (A–M), each
// entry carrying tags, a type, and markdown content.
//
// Storage is pluggable behind the Source interface. Three backends
// exist: a local JSON file, a YAML file, and a SQLite database. All
// are read-only at request time; content is loaded or queried, never
// mutated by the server.
package codex

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ModuleMap is the fixed letter-to-module-name table. It is the single
// source of truth for module resolution in tools and the REST API.
var ModuleMap = map[string]string{
	"A": "Module A: General Commands",
	"B": "Module B: Programming",
	"C": "Module C: Visualization",
	"D": "Module D: AI Control",
	"E": "Module E: Data Analysis & ML",
	"F": "Module F: Documentation",
	"G": "Module G: Testing & QA",
	"H": "Module H: Database & Data Modeling",
	"I": "Module I: Security & Compliance",
	"J": "Module J: DevOps & Deployment",
	"K": "Module K: Frontend & UI",
	"L": "Module L: Data Pipelines & ETL",
	"M": "Module M: MCP Integration",
}

// ModuleLetters returns the module letters in alphabetical order.
func ModuleLetters() []string {
	letters := make([]string, 0, len(ModuleMap))
	for l := range ModuleMap {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// ResolveModule maps a module letter to its full name, passing full
// names through unchanged.
func ResolveModule(module string) string {
	if full, ok := ModuleMap[strings.ToUpper(module)]; ok {
		return full
	}
	return module
}

// Entry is one codex record: a command, example, test, or reference
// page belonging to a module.
type Entry struct {
	ID             string   `json:"id" yaml:"id"`
	URL            string   `json:"url,omitempty" yaml:"url,omitempty"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Module         string   `json:"module" yaml:"module"`
	Type           string   `json:"type,omitempty" yaml:"type,omitempty"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Content        string   `json:"content,omitempty" yaml:"content,omitempty"`
	CreatedTime    string   `json:"created_time,omitempty" yaml:"created_time,omitempty"`
	LastEditedTime string   `json:"last_edited_time,omitempty" yaml:"last_edited_time,omitempty"`
}

// ErrNotFound is returned when an entry id does not exist in the codex.
var ErrNotFound = errors.New("codex: entry not found")

// Source is the read interface all codex backends implement.
type Source interface {
	// Entries returns every entry, in the backend's stable order.
	Entries() ([]Entry, error)
	// EntryByID returns the entry with the given id, or ErrNotFound.
	EntryByID(id string) (Entry, error)
	// EntryContent returns the full markdown content of an entry.
	EntryContent(id string) (string, error)
	// ModuleEntries returns the entries of one module (full name).
	ModuleEntries(module string) ([]Entry, error)
	// Search returns entries whose title, description, or tags
	// contain the query (case-insensitive), up to max results.
	Search(query string, max int) ([]Entry, error)
	// ByTag returns entries carrying the exact tag.
	ByTag(tag string) ([]Entry, error)
	// ByType returns entries of the exact type.
	ByType(typ string) ([]Entry, error)
}

// MaxQueryLength bounds search queries; longer input is rejected
// before it reaches any backend.
const MaxQueryLength = 200

// ValidateQuery trims and validates a search query.
func ValidateQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", fmt.Errorf("query string cannot be empty")
	}
	if len(q) > MaxQueryLength {
		return "", fmt.Errorf("query too long (max %d characters)", MaxQueryLength)
	}
	return q, nil
}

// SanitizeText strips control characters (except newline and tab)
// from backend content before it is handed to clients.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TruncateText cuts text to maxLen, appending an ellipsis when
// anything was removed.
func TruncateText(text string, maxLen int) string {
	const suffix = "..."
	if text == "" || len(text) <= maxLen {
		return text
	}
	if maxLen <= len(suffix) {
		return text[:maxLen]
	}
	return text[:maxLen-len(suffix)] + suffix
}

// Stats aggregates codex contents for the statistics tool/endpoint.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	ByModule     map[string]int `json:"by_module"`
	ByType       map[string]int `json:"by_type"`
	ByTag        map[string]int `json:"by_tag"`
}

// ComputeStats tallies entries by module, type, and tag.
func ComputeStats(entries []Entry) Stats {
	stats := Stats{
		TotalEntries: len(entries),
		ByModule:     make(map[string]int),
		ByType:       make(map[string]int),
		ByTag:        make(map[string]int),
	}
	for _, e := range entries {
		if e.Module != "" {
			stats.ByModule[e.Module]++
		}
		if e.Type != "" {
			stats.ByType[e.Type]++
		}
		for _, tag := range e.Tags {
			stats.ByTag[tag]++
		}
	}
	return stats
}

// matchesQuery implements the shared substring search semantics used
// by the file-backed sources.
func matchesQuery(e Entry, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(e.Title), loweredQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Description), loweredQuery) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(e.Tags, " ")), loweredQuery)
}
