package codex

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"
)

// contentCacheSize bounds the LRU cache of full entry content. Entry
// bodies are the only large payloads; metadata queries skip the cache.
const contentCacheSize = 128

// SQLiteSource serves the codex from a SQLite database. It stands in
// for a remote document store: entries are imported once (see Import)
// and queried read-only afterwards. database/sql handles connection
// concurrency; the content cache is safe for concurrent use.
type SQLiteSource struct {
	db    *sql.DB
	cache *lru.Cache[string, string]
}

// NewSQLiteSource opens (and if needed initializes) a codex database.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("codex: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("codex: pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			id               TEXT PRIMARY KEY,
			url              TEXT NOT NULL DEFAULT '',
			title            TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			module           TEXT NOT NULL DEFAULT '',
			type             TEXT NOT NULL DEFAULT '',
			tags             TEXT NOT NULL DEFAULT '[]',
			content          TEXT NOT NULL DEFAULT '',
			created_time     TEXT NOT NULL DEFAULT '',
			last_edited_time TEXT NOT NULL DEFAULT '',
			position         INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_entries_module ON entries(module);
		CREATE INDEX IF NOT EXISTS idx_entries_type   ON entries(type);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("codex: migration: %w", err)
	}

	cache, err := lru.New[string, string](contentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("codex: content cache: %w", err)
	}

	return &SQLiteSource{db: db, cache: cache}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Import replaces the database contents with the given entries. Used
// by the CLI to seed a database from a JSON/YAML codex file.
func (s *SQLiteSource) Import(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("codex: begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("codex: clear entries: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries
			(id, url, title, description, module, type, tags, content,
			 created_time, last_edited_time, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("codex: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		tags, err := json.Marshal(e.Tags)
		if err != nil {
			return fmt.Errorf("codex: encoding tags for %s: %w", e.ID, err)
		}
		if _, err := stmt.Exec(
			e.ID, e.URL, e.Title, e.Description, e.Module, e.Type,
			string(tags), e.Content, e.CreatedTime, e.LastEditedTime, i,
		); err != nil {
			return fmt.Errorf("codex: inserting %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("codex: commit import: %w", err)
	}
	s.cache.Purge()
	return nil
}

const entryColumns = `id, url, title, description, module, type, tags,
	created_time, last_edited_time`

// scanEntry reads one metadata row (content excluded — it is fetched
// separately and cached).
func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var tags string
	if err := rows.Scan(&e.ID, &e.URL, &e.Title, &e.Description,
		&e.Module, &e.Type, &tags, &e.CreatedTime, &e.LastEditedTime); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return Entry{}, fmt.Errorf("decoding tags for %s: %w", e.ID, err)
	}
	return e, nil
}

func (s *SQLiteSource) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("codex: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("codex: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Entries returns all entries in import order.
func (s *SQLiteSource) Entries() ([]Entry, error) {
	return s.queryEntries(
		"SELECT " + entryColumns + " FROM entries ORDER BY position")
}

// EntryByID returns a single entry or ErrNotFound.
func (s *SQLiteSource) EntryByID(id string) (Entry, error) {
	if id == "" {
		return Entry{}, fmt.Errorf("entry id cannot be empty")
	}
	entries, err := s.queryEntries(
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entries[0], nil
}

// EntryContent returns the sanitized content of an entry, caching the
// result so repeated reads of the same page skip the database.
func (s *SQLiteSource) EntryContent(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("entry id cannot be empty")
	}
	if content, ok := s.cache.Get(id); ok {
		return content, nil
	}

	var content string
	err := s.db.QueryRow("SELECT content FROM entries WHERE id = ?", id).Scan(&content)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("codex: content query: %w", err)
	}

	content = SanitizeText(content)
	s.cache.Add(id, content)
	return content, nil
}

// ModuleEntries filters entries by full module name.
func (s *SQLiteSource) ModuleEntries(module string) ([]Entry, error) {
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM entries WHERE module = ? ORDER BY position",
		module)
}

// Search matches the query as a case-insensitive substring of title,
// description, or tags. instr() avoids LIKE wildcard escaping.
func (s *SQLiteSource) Search(query string, max int) ([]Entry, error) {
	q, err := ValidateQuery(query)
	if err != nil {
		return nil, err
	}
	if max <= 0 {
		max = -1 // SQLite treats negative LIMIT as unlimited
	}
	return s.queryEntries(`
		SELECT `+entryColumns+` FROM entries
		WHERE instr(lower(title), ?) > 0
		   OR instr(lower(description), ?) > 0
		   OR instr(lower(tags), ?) > 0
		ORDER BY position LIMIT ?`,
		strings.ToLower(q), strings.ToLower(q), strings.ToLower(q), max)
}

// ByTag filters entries carrying the exact tag. Tags are stored as a
// JSON array, so the match re-checks exactness in Go after a coarse
// substring pre-filter.
func (s *SQLiteSource) ByTag(tag string) ([]Entry, error) {
	candidates, err := s.queryEntries(
		"SELECT "+entryColumns+" FROM entries WHERE instr(tags, ?) > 0 ORDER BY position",
		tag)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range candidates {
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
func (s *SQLiteSource) ByType(typ string) ([]Entry, error) {
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM entries WHERE type = ? ORDER BY position",
		typ)
}
