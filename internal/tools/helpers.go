// Package tools implements the MCP tools exposed by the CompText
// server: the compiler tool plus the codex browsing and search tools.
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comptext/comptext-mcp/internal/codex"
)

// descriptionPreview caps entry descriptions in list output.
const descriptionPreview = 150

// intArg extracts an integer argument from a tool request.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// formatEntryList renders entries as a markdown list with one line of
// metadata per entry.
func formatEntryList(sb *strings.Builder, entries []codex.Entry) {
	for i, e := range entries {
		fmt.Fprintf(sb, "%d. **%s**\n", i+1, e.Title)
		if e.Module != "" {
			fmt.Fprintf(sb, "   - Module: %s\n", e.Module)
		}
		if e.Type != "" {
			fmt.Fprintf(sb, "   - Type: %s\n", e.Type)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(sb, "   - Tags: %s\n", strings.Join(e.Tags, ", "))
		}
		if e.Description != "" {
			fmt.Fprintf(sb, "   - %s\n", codex.TruncateText(e.Description, descriptionPreview))
		}
		fmt.Fprintf(sb, "   - ID: `%s`\n", e.ID)
	}
}
