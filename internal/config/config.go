// Package config loads server configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DataSource selects the codex backend.
type DataSource string

const (
	SourceLocal  DataSource = "local"
	SourceYAML   DataSource = "yaml"
	SourceSQLite DataSource = "sqlite"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultCodexPath   = "data/codex.json"
	DefaultBundlesPath = "bundles/bundles.yaml"
	DefaultRESTAddr    = ":8000"
	DefaultMaxResults  = 10
)

// Config holds everything the MCP and REST servers need at startup.
type Config struct {
	// DataSource picks the codex backend: local (JSON), yaml, or sqlite.
	DataSource DataSource
	// CodexPath is the codex file or database path for the backend.
	CodexPath string
	// BundlesPath is the compiler bundle registry YAML file.
	BundlesPath string
	// RESTAddr is the listen address of the REST API server.
	RESTAddr string
	// MaxResults caps search results per request.
	MaxResults int
	// WatchBundles enables hot reload of the bundle registry.
	WatchBundles bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataSource:   SourceLocal,
		CodexPath:    DefaultCodexPath,
		BundlesPath:  DefaultBundlesPath,
		RESTAddr:     DefaultRESTAddr,
		MaxResults:   DefaultMaxResults,
		WatchBundles: false,
	}

	if raw := strings.TrimSpace(os.Getenv("COMPTEXT_DATA_SOURCE")); raw != "" {
		src := DataSource(strings.ToLower(raw))
		switch src {
		case SourceLocal, SourceYAML, SourceSQLite:
			cfg.DataSource = src
		default:
			return nil, fmt.Errorf("config: unknown COMPTEXT_DATA_SOURCE %q (want local, yaml, or sqlite)", raw)
		}
	}

	if v := strings.TrimSpace(os.Getenv("COMPTEXT_CODEX_PATH")); v != "" {
		cfg.CodexPath = v
	} else if cfg.DataSource != SourceLocal {
		// The JSON default makes no sense for the other backends.
		switch cfg.DataSource {
		case SourceYAML:
			cfg.CodexPath = "data/codex.yaml"
		case SourceSQLite:
			cfg.CodexPath = "data/codex.db"
		}
	}

	if v := strings.TrimSpace(os.Getenv("COMPTEXT_BUNDLES_PATH")); v != "" {
		cfg.BundlesPath = v
	}

	if v := strings.TrimSpace(os.Getenv("COMPTEXT_REST_ADDR")); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		cfg.RESTAddr = v
	}

	if v := strings.TrimSpace(os.Getenv("COMPTEXT_MAX_RESULTS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: COMPTEXT_MAX_RESULTS must be a positive integer, got %q", v)
		}
		cfg.MaxResults = n
	}

	if v := strings.TrimSpace(os.Getenv("COMPTEXT_WATCH_BUNDLES")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: COMPTEXT_WATCH_BUNDLES must be a boolean, got %q", v)
		}
		cfg.WatchBundles = b
	}

	return cfg, nil
}
