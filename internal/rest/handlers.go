package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/comptext/comptext-mcp/internal/codex"
	"github.com/comptext/comptext-mcp/internal/compiler"
)

// searchDefaultMax and searchMaxMax bound the max_results query
// parameter.
const (
	searchDefaultMax = 20
	searchMaxMax     = 100
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "CompText Codex API",
		"version": s.version,
		"endpoints": map[string]string{
			"modules":      "/api/modules",
			"module_by_id": "/api/modules/{module}",
			"search":       "/api/search?query=...",
			"command":      "/api/command/{id}",
			"by_tag":       "/api/tags/{tag}",
			"by_type":      "/api/types/{type}",
			"statistics":   "/api/statistics",
			"compile":      "/api/compile",
			"health":       "/health",
			"metrics":      "/metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	entries, err := s.source.Entries()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":          "unhealthy",
			"codex_connected": false,
			"error":           err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"codex_connected": true,
		"entries_count":   len(entries),
	})
}

// moduleOverview is one module in the /api/modules response.
type moduleOverview struct {
	Name    string        `json:"name"`
	Count   int           `json:"count"`
	Entries []codex.Entry `json:"entries"`
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	entries, err := s.source.Entries()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	byModule := make(map[string][]codex.Entry)
	for _, e := range entries {
		if e.Module != "" {
			byModule[e.Module] = append(byModule[e.Module], e)
		}
	}

	modules := make(map[string]moduleOverview, len(codex.ModuleMap))
	for letter, name := range codex.ModuleMap {
		modules[letter] = moduleOverview{
			Name:    name,
			Count:   len(byModule[name]),
			Entries: entriesOrEmpty(byModule[name]),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_modules": len(byModule),
		"total_entries": len(entries),
		"modules":       modules,
	})
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	module := codex.ResolveModule(r.PathValue("module"))

	entries, err := s.source.ModuleEntries(module)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"module":  module,
		"count":   len(entries),
		"entries": entriesOrEmpty(entries),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	max := searchDefaultMax
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > searchMaxMax {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("max_results must be between 1 and %d", searchMaxMax))
			return
		}
		max = n
	}

	results, err := s.source.Search(query, max)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   strings.TrimSpace(query),
		"count":   len(results),
		"results": entriesOrEmpty(results),
	})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entry, err := s.source.EntryByID(id)
	if errors.Is(err, codex.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	content, err := s.source.EntryContent(id)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entry":   entry,
		"content": content,
	})
}

func (s *Server) handleByTag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")

	entries, err := s.source.ByTag(tag)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tag":     tag,
		"count":   len(entries),
		"entries": entriesOrEmpty(entries),
	})
}

func (s *Server) handleByType(w http.ResponseWriter, r *http.Request) {
	typ := r.PathValue("type")

	entries, err := s.source.ByType(typ)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":    typ,
		"count":   len(entries),
		"entries": entriesOrEmpty(entries),
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	entries, err := s.source.Entries()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, codex.ComputeStats(entries))
}

// compileRequest is the /api/compile request body.
type compileRequest struct {
	Text     string   `json:"text"`
	Audience string   `json:"audience,omitempty"`
	Mode     string   `json:"mode,omitempty"`
	Return   string   `json:"return,omitempty"`
	Deltas   []string `json:"deltas,omitempty"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var body compileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := compiler.Compile(s.provider.Registry(), compiler.Request{
		Text:       body.Text,
		Audience:   compiler.ParseAudience(body.Audience),
		Mode:       compiler.ParseMode(body.Mode),
		ReturnMode: compiler.ParseReturnMode(body.Return),
		Deltas:     body.Deltas,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.observeCompile(result.Clarification != "")
	writeJSON(w, http.StatusOK, result)
}

// entriesOrEmpty keeps empty result sets as JSON arrays instead of
// null.
func entriesOrEmpty(entries []codex.Entry) []codex.Entry {
	if entries == nil {
		return []codex.Entry{}
	}
	return entries
}
