package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comptext/comptext-mcp/internal/codex"
)

// ListModulesTool handles the list_modules MCP tool.
type ListModulesTool struct {
	source codex.Source
}

// NewListModulesTool creates a ListModulesTool with the given codex
// source.
func NewListModulesTool(source codex.Source) *ListModulesTool {
	return &ListModulesTool{source: source}
}

// Definition returns the MCP tool definition for list_modules.
func (t *ListModulesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_modules",
		mcp.WithDescription(
			"List all CompText modules (A-M) with their names and the number "+
				"of codex entries each one holds.",
		),
	)
}

// Handle processes the list_modules tool call.
func (t *ListModulesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := t.source.Entries()
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Module]++
	}

	var sb strings.Builder
	sb.WriteString("## CompText Modules\n\n")
	for _, letter := range codex.ModuleLetters() {
		name := codex.ModuleMap[letter]
		fmt.Fprintf(&sb, "- **%s** (%d entries)\n", name, counts[name])
	}
	fmt.Fprintf(&sb, "\nTotal entries: %d\n", len(entries))

	return mcp.NewToolResultText(sb.String()), nil
}

// GetModuleTool handles the get_module MCP tool.
type GetModuleTool struct {
	source codex.Source
}

// NewGetModuleTool creates a GetModuleTool with the given codex source.
func NewGetModuleTool(source codex.Source) *GetModuleTool {
	return &GetModuleTool{source: source}
}

// Definition returns the MCP tool definition for get_module.
func (t *GetModuleTool) Definition() mcp.Tool {
	return mcp.NewTool("get_module",
		mcp.WithDescription(
			"Get all codex entries of one CompText module. Accepts a module "+
				"letter (A-M) or a full module name.",
		),
		mcp.WithString("module",
			mcp.Required(),
			mcp.Description("Module letter or full name. Example: 'B' or 'Module B: Programming'"),
		),
	)
}

// Handle processes the get_module tool call.
func (t *GetModuleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	module := strings.TrimSpace(req.GetString("module", ""))
	if module == "" {
		return mcp.NewToolResultError("'module' is required"), nil
	}

	full := codex.ResolveModule(module)
	entries, err := t.source.ModuleEntries(full)
	if err != nil {
		return nil, fmt.Errorf("get module %s: %w", full, err)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries found for %q.", full)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%d entries)\n\n", full, len(entries))
	formatEntryList(&sb, entries)

	return mcp.NewToolResultText(sb.String()), nil
}
