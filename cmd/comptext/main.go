// CompText MCP Server
//
// Compiles natural-language task descriptions into the CompText DSL
// and serves the CompText codex to MCP clients and over REST.
//
// Usage:
//
//	comptext serve      # Start MCP server (stdio transport)
//	comptext rest       # Start the REST API server
//	comptext compile    # One-shot compilation from the command line
//	comptext validate   # Lint a bundle registry file
//	comptext seed       # Import a codex file into a SQLite database
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/comptext/comptext-mcp/internal/codex"
	"github.com/comptext/comptext-mcp/internal/compiler"
	"github.com/comptext/comptext-mcp/internal/config"
	"github.com/comptext/comptext-mcp/internal/rest"
	"github.com/comptext/comptext-mcp/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:           "comptext",
		Short:         "CompText NL-to-DSL compiler and codex server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newRESTCmd(),
		newCompileCmd(),
		newValidateCmd(),
		newSeedCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := server.New()
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			return mcpserver.ServeStdio(s)
		},
	}
}

func newRESTCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "rest",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, cleanup, err := server.NewDeps()
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			if addr == "" {
				addr = deps.Config.RESTAddr
			}

			ctx, stop := signalContext()
			defer stop()

			api := rest.New(deps.Source, deps.Provider, deps.Config.MaxResults, server.Version)
			return api.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from COMPTEXT_REST_ADDR)")
	return cmd
}

func newCompileCmd() *cobra.Command {
	var (
		bundlesPath string
		audience    string
		mode        string
		returnMode  string
		deltas      []string
	)

	cmd := &cobra.Command{
		Use:   "compile [text...]",
		Short: "Compile natural language into CompText DSL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bundlesPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				bundlesPath = cfg.BundlesPath
			}

			reg, err := compiler.LoadRegistry(bundlesPath)
			if err != nil {
				return err
			}

			rm := compiler.ParseReturnMode(returnMode)
			result, err := compiler.Compile(reg, compiler.Request{
				Text:       strings.Join(args, " "),
				Audience:   compiler.ParseAudience(audience),
				Mode:       compiler.ParseMode(mode),
				ReturnMode: rm,
				Deltas:     deltas,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), compiler.RenderText(result, rm))
			return nil
		},
	}
	cmd.Flags().StringVar(&bundlesPath, "bundles", "", "bundle registry file (default from COMPTEXT_BUNDLES_PATH)")
	cmd.Flags().StringVar(&audience, "audience", "dev", "audience profile: dev, audit, or exec")
	cmd.Flags().StringVar(&mode, "mode", "bundle_only", "compilation mode: bundle_only or allow_inline_fallback")
	cmd.Flags().StringVar(&returnMode, "return", "dsl_plus_confidence", "output shape: dsl_only, dsl_plus_confidence, or dsl_plus_explanation")
	cmd.Flags().StringSliceVar(&deltas, "delta", nil, "delta directive appended to the bundle line (repeatable)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [bundles.yaml]",
		Short: "Validate a bundle registry file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				path = cfg.BundlesPath
			}

			reg, err := compiler.LoadRegistry(path)
			if err != nil {
				return err
			}

			bundles := reg.Bundles()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d bundles)\n", path, len(bundles))
			for _, b := range bundles {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s/%s, %d keywords)\n",
					b.ID, b.Domain, b.Task, len(b.Match.KeywordsAny))
			}
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a JSON or YAML codex file into a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				src codex.Source
				err error
			)
			if strings.HasSuffix(from, ".yaml") || strings.HasSuffix(from, ".yml") {
				src, err = codex.NewYAMLSource(from)
			} else {
				src, err = codex.NewLocalSource(from)
			}
			if err != nil {
				return err
			}

			entries, err := src.Entries()
			if err != nil {
				return err
			}

			db, err := codex.NewSQLiteSource(to)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Import(entries); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries into %s\n", len(entries), to)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", config.DefaultCodexPath, "codex file to import (.json, .yaml)")
	cmd.Flags().StringVar(&to, "to", "data/codex.db", "target SQLite database")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "comptext v%s\n", server.Version)
		},
	}
}
