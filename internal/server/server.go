// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools that depend on abstractions. No
// business logic lives here — only wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/comptext/comptext-mcp/internal/codex"
	"github.com/comptext/comptext-mcp/internal/compiler"
	"github.com/comptext/comptext-mcp/internal/config"
	"github.com/comptext/comptext-mcp/internal/resources"
	"github.com/comptext/comptext-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Deps holds the shared backends the MCP and REST servers are built
// from. Both servers see the same codex source and the same registry
// provider, so a hot reload is visible to both.
type Deps struct {
	Config   *config.Config
	Source   codex.Source
	Provider *compiler.Provider
}

// NewDeps resolves configuration and constructs the codex source and
// the bundle registry provider. The returned cleanup function closes
// the codex backend and stops the registry watcher; it is always
// non-nil and safe to call.
func NewDeps() (*Deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, err
	}

	source, closeSource, err := newSource(cfg)
	if err != nil {
		return nil, noop, err
	}

	provider, err := compiler.NewProvider(cfg.BundlesPath)
	if err != nil {
		closeSource()
		return nil, noop, fmt.Errorf("loading bundle registry: %w", err)
	}

	stopWatch := func() {}
	if cfg.WatchBundles {
		ctx, cancel := context.WithCancel(context.Background())
		stopWatch = cancel
		go func() {
			if err := provider.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("WARNING: bundle watcher stopped: %v", err)
			}
		}()
	}

	cleanup := func() {
		stopWatch()
		closeSource()
	}
	return &Deps{Config: cfg, Source: source, Provider: provider}, cleanup, nil
}

// newSource builds the codex backend selected by the configuration.
func newSource(cfg *config.Config) (codex.Source, func(), error) {
	switch cfg.DataSource {
	case config.SourceLocal:
		src, err := codex.NewLocalSource(cfg.CodexPath)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case config.SourceYAML:
		src, err := codex.NewYAMLSource(cfg.CodexPath)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case config.SourceSQLite:
		src, err := codex.NewSQLiteSource(cfg.CodexPath)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := src.Close(); err != nil {
				log.Printf("WARNING: closing codex database: %v", err)
			}
		}
		return src, closeFn, nil
	default:
		return nil, noop, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function must be called on shutdown (typically
// via defer). It is always non-nil and safe to call even if
// initialization failed.
func New() (*server.MCPServer, func(), error) {
	deps, cleanup, err := NewDeps()
	if err != nil {
		return nil, cleanup, err
	}

	s := server.NewMCPServer(
		"comptext",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)
	registerTools(s, deps)
	registerResources(s, deps)

	return s, cleanup, nil
}

// registerTools adds every CompText tool to the server. Shared with
// tests that inspect the tool set.
func registerTools(s *server.MCPServer, deps *Deps) {
	compile := tools.NewCompileTool(deps.Provider)
	s.AddTool(compile.Definition(), compile.Handle)

	listModules := tools.NewListModulesTool(deps.Source)
	s.AddTool(listModules.Definition(), listModules.Handle)

	getModule := tools.NewGetModuleTool(deps.Source)
	s.AddTool(getModule.Definition(), getModule.Handle)

	getCommand := tools.NewGetCommandTool(deps.Source)
	s.AddTool(getCommand.Definition(), getCommand.Handle)

	search := tools.NewSearchTool(deps.Source, deps.Config.MaxResults)
	s.AddTool(search.Definition(), search.Handle)

	byTag := tools.NewByTagTool(deps.Source)
	s.AddTool(byTag.Definition(), byTag.Handle)

	byType := tools.NewByTypeTool(deps.Source)
	s.AddTool(byType.Definition(), byType.Handle)

	stats := tools.NewStatsTool(deps.Source)
	s.AddTool(stats.Definition(), stats.Handle)
}

// registerResources adds the read-only codex resources.
func registerResources(s *server.MCPServer, deps *Deps) {
	h := resources.NewHandler(deps.Source)
	s.AddResource(h.StatisticsResource(), h.HandleStatistics)
	s.AddResource(h.ModulesResource(), h.HandleModules)
}

// noop is a no-op cleanup function used as the default when
// initialization fails before any resource is held.
func noop() {}

// serverInstructions returns the guidance text sent to MCP clients.
func serverInstructions() string {
	return `# CompText MCP Server

CompText is a compact DSL for instructing coding agents. This server
compiles natural language into CompText and serves the CompText codex
(the reference documentation, organized into modules A-M).

## Compiling

Use comptext_compile to turn a task description into DSL:
- Input: free-form text like "review my code for readability"
- Output: 'use:' directives with a confidence score
- Low-confidence input gets a clarifying question instead of DSL.
  Relay the question to the user and compile again with their answer.
- Pick the audience profile (dev, audit, exec) to match who will read
  the result.

## Browsing the codex

- list_modules: overview of modules A-M with entry counts
- get_module: all entries of one module (letter or full name)
- search: keyword search across titles, descriptions, and tags
- get_by_tag / get_by_type: exact filters
- get_command: one entry with its full documentation
- get_statistics: codex totals per module, type, and tag

Look up unfamiliar 'use:' directives in the codex before executing
compiled DSL.`
}
