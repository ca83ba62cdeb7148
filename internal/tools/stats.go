package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comptext/comptext-mcp/internal/codex"
)

// StatsTool handles the get_statistics MCP tool.
type StatsTool struct {
	source codex.Source
}

// NewStatsTool creates a StatsTool with the given codex source.
func NewStatsTool(source codex.Source) *StatsTool {
	return &StatsTool{source: source}
}

// Definition returns the MCP tool definition for get_statistics.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_statistics",
		mcp.WithDescription(
			"Show codex statistics: total entries plus counts per module, "+
				"type, and tag.",
		),
	)
}

// Handle processes the get_statistics tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := t.source.Entries()
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	stats := codex.ComputeStats(entries)

	var sb strings.Builder
	sb.WriteString("## Codex Statistics\n\n")
	fmt.Fprintf(&sb, "- **Total entries**: %d\n", stats.TotalEntries)

	writeCounts(&sb, "By module", stats.ByModule)
	writeCounts(&sb, "By type", stats.ByType)
	writeCounts(&sb, "By tag", stats.ByTag)

	return mcp.NewToolResultText(sb.String()), nil
}

// writeCounts renders one count map as a markdown section, keys
// sorted for stable output.
func writeCounts(sb *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(sb, "\n### %s\n\n", title)
	for _, k := range keys {
		fmt.Fprintf(sb, "- %s: %d\n", k, counts[k])
	}
}
