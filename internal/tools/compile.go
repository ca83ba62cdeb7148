package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comptext/comptext-mcp/internal/compiler"
)

// CompileTool handles the comptext_compile MCP tool. It reads the
// bundle registry through a provider so hot reloads are picked up
// between calls.
type CompileTool struct {
	provider *compiler.Provider
}

// NewCompileTool creates a CompileTool backed by the given registry
// provider.
func NewCompileTool(provider *compiler.Provider) *CompileTool {
	return &CompileTool{provider: provider}
}

// Definition returns the MCP tool definition for comptext_compile.
func (t *CompileTool) Definition() mcp.Tool {
	return mcp.NewTool("comptext_compile",
		mcp.WithDescription(
			"Compile a natural-language task description into CompText DSL. "+
				"Matches the text against curated command bundles and returns "+
				"'use:' directives with a confidence score. Asks a clarifying "+
				"question instead when no bundle matches confidently.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Natural-language description of the task. Example: 'please review my code for readability'"),
		),
		mcp.WithString("audience",
			mcp.Description("Target audience profile: dev (default), audit, or exec."),
		),
		mcp.WithString("mode",
			mcp.Description("Compilation mode: bundle_only (default) or allow_inline_fallback."),
		),
		mcp.WithString("return",
			mcp.Description("Output shape: dsl_plus_confidence (default), dsl_only, or dsl_plus_explanation."),
		),
		mcp.WithString("deltas",
			mcp.Description("Space-separated delta directives appended to the bundle line. Example: '+benchmark=full +compare=baseline'"),
		),
	)
}

// Handle processes the comptext_compile tool call.
func (t *CompileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	returnMode := compiler.ParseReturnMode(req.GetString("return", ""))
	creq := compiler.Request{
		Text:       text,
		Audience:   compiler.ParseAudience(req.GetString("audience", "")),
		Mode:       compiler.ParseMode(req.GetString("mode", "")),
		ReturnMode: returnMode,
		Deltas:     strings.Fields(req.GetString("deltas", "")),
	}

	result, err := compiler.Compile(t.provider.Registry(), creq)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	return mcp.NewToolResultText(compiler.RenderText(result, returnMode)), nil
}
