// Package resources implements MCP resource handlers for the codex.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (comptext://...) following
// MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comptext/comptext-mcp/internal/codex"
)

// Handler manages codex resource endpoints.
type Handler struct {
	source codex.Source
}

// NewHandler creates a resource Handler over the given codex source.
func NewHandler(source codex.Source) *Handler {
	return &Handler{source: source}
}

// StatisticsResource returns the MCP resource definition for codex
// statistics.
func (h *Handler) StatisticsResource() mcp.Resource {
	return mcp.NewResource(
		"comptext://codex/statistics",
		"Codex Statistics",
		mcp.WithResourceDescription("Entry totals per module, type, and tag"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatistics returns the codex statistics as JSON.
func (h *Handler) HandleStatistics(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.source.Entries()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(codex.ComputeStats(entries), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling statistics: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// ModulesResource returns the MCP resource definition for the module
// overview.
func (h *Handler) ModulesResource() mcp.Resource {
	return mcp.NewResource(
		"comptext://codex/modules",
		"Codex Modules",
		mcp.WithResourceDescription("All modules (A-M) with their entries"),
		mcp.WithMIMEType("application/json"),
	)
}

// moduleListing is one module in the modules resource payload.
type moduleListing struct {
	Letter  string        `json:"letter"`
	Name    string        `json:"name"`
	Entries []codex.Entry `json:"entries"`
}

// HandleModules returns every module with its entries as JSON.
func (h *Handler) HandleModules(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.source.Entries()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	byModule := make(map[string][]codex.Entry)
	for _, e := range entries {
		byModule[e.Module] = append(byModule[e.Module], e)
	}

	listing := make([]moduleListing, 0, len(codex.ModuleMap))
	for _, letter := range codex.ModuleLetters() {
		name := codex.ModuleMap[letter]
		listing = append(listing, moduleListing{
			Letter:  letter,
			Name:    name,
			Entries: byModule[name],
		})
	}

	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling modules: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// jsonResource wraps a JSON payload as resource contents.
func jsonResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
