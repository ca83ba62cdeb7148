package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comptext/comptext-mcp/internal/codex"
)

// SearchTool handles the search MCP tool.
type SearchTool struct {
	source     codex.Source
	maxResults int
}

// NewSearchTool creates a SearchTool with the given codex source and
// default result cap.
func NewSearchTool(source codex.Source, maxResults int) *SearchTool {
	return &SearchTool{source: source, maxResults: maxResults}
}

// Definition returns the MCP tool definition for search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription(
			"Search the CompText codex. Matches the query against entry "+
				"titles, descriptions, and tags (case-insensitive substring).",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term. Example: 'security scan'"),
		),
		mcp.WithNumber("max",
			mcp.Description(fmt.Sprintf("Max results (default: %d)", t.maxResults)),
		),
	)
}

// Handle processes the search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	max := intArg(req, "max", t.maxResults)

	results, err := t.source.Search(query, max)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries found for %q.", strings.TrimSpace(query))), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search results for %q (%d)\n\n", strings.TrimSpace(query), len(results))
	formatEntryList(&sb, results)

	return mcp.NewToolResultText(sb.String()), nil
}

// ByTagTool handles the get_by_tag MCP tool.
type ByTagTool struct {
	source codex.Source
}

// NewByTagTool creates a ByTagTool with the given codex source.
func NewByTagTool(source codex.Source) *ByTagTool {
	return &ByTagTool{source: source}
}

// Definition returns the MCP tool definition for get_by_tag.
func (t *ByTagTool) Definition() mcp.Tool {
	return mcp.NewTool("get_by_tag",
		mcp.WithDescription("Get all codex entries carrying an exact tag."),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag to filter by. Example: 'security'"),
		),
	)
}

// Handle processes the get_by_tag tool call.
func (t *ByTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := strings.TrimSpace(req.GetString("tag", ""))
	if tag == "" {
		return mcp.NewToolResultError("'tag' is required"), nil
	}

	entries, err := t.source.ByTag(tag)
	if err != nil {
		return nil, fmt.Errorf("get by tag %s: %w", tag, err)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries tagged %q.", tag)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Entries tagged %q (%d)\n\n", tag, len(entries))
	formatEntryList(&sb, entries)

	return mcp.NewToolResultText(sb.String()), nil
}

// ByTypeTool handles the get_by_type MCP tool.
type ByTypeTool struct {
	source codex.Source
}

// NewByTypeTool creates a ByTypeTool with the given codex source.
func NewByTypeTool(source codex.Source) *ByTypeTool {
	return &ByTypeTool{source: source}
}

// Definition returns the MCP tool definition for get_by_type.
func (t *ByTypeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_by_type",
		mcp.WithDescription(
			"Get all codex entries of one type, such as command, example, "+
				"test, or reference.",
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Entry type to filter by. Example: 'command'"),
		),
	)
}

// Handle processes the get_by_type tool call.
func (t *ByTypeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ := strings.TrimSpace(req.GetString("type", ""))
	if typ == "" {
		return mcp.NewToolResultError("'type' is required"), nil
	}

	entries, err := t.source.ByType(typ)
	if err != nil {
		return nil, fmt.Errorf("get by type %s: %w", typ, err)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries of type %q.", typ)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Entries of type %q (%d)\n\n", typ, len(entries))
	formatEntryList(&sb, entries)

	return mcp.NewToolResultText(sb.String()), nil
}
