package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comptext/comptext-mcp/internal/codex"
)

// GetCommandTool handles the get_command MCP tool.
type GetCommandTool struct {
	source codex.Source
}

// NewGetCommandTool creates a GetCommandTool with the given codex
// source.
func NewGetCommandTool(source codex.Source) *GetCommandTool {
	return &GetCommandTool{source: source}
}

// Definition returns the MCP tool definition for get_command.
func (t *GetCommandTool) Definition() mcp.Tool {
	return mcp.NewTool("get_command",
		mcp.WithDescription(
			"Get one codex entry by id, including its full documentation "+
				"content.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry id as shown by search or get_module."),
		),
	)
}

// Handle processes the get_command tool call.
func (t *GetCommandTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("id", ""))
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	entry, err := t.source.EntryByID(id)
	if errors.Is(err, codex.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no entry with id %q", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get command %s: %w", id, err)
	}

	content, err := t.source.EntryContent(id)
	if err != nil {
		return nil, fmt.Errorf("get command content %s: %w", id, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", entry.Title)
	if entry.Module != "" {
		fmt.Fprintf(&sb, "- **Module**: %s\n", entry.Module)
	}
	if entry.Type != "" {
		fmt.Fprintf(&sb, "- **Type**: %s\n", entry.Type)
	}
	if len(entry.Tags) > 0 {
		fmt.Fprintf(&sb, "- **Tags**: %s\n", strings.Join(entry.Tags, ", "))
	}
	if entry.Description != "" {
		fmt.Fprintf(&sb, "- **Description**: %s\n", entry.Description)
	}
	if content != "" {
		fmt.Fprintf(&sb, "\n%s\n", content)
	}

	return mcp.NewToolResultText(sb.String()), nil
}
