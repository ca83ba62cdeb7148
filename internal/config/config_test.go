package config

import "testing"

// clearEnv unsets every COMPTEXT_* variable so tests see only what
// they set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COMPTEXT_DATA_SOURCE",
		"COMPTEXT_CODEX_PATH",
		"COMPTEXT_BUNDLES_PATH",
		"COMPTEXT_REST_ADDR",
		"COMPTEXT_MAX_RESULTS",
		"COMPTEXT_WATCH_BUNDLES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataSource != SourceLocal {
		t.Errorf("DataSource = %s, want local", cfg.DataSource)
	}
	if cfg.CodexPath != DefaultCodexPath {
		t.Errorf("CodexPath = %s, want %s", cfg.CodexPath, DefaultCodexPath)
	}
	if cfg.BundlesPath != DefaultBundlesPath {
		t.Errorf("BundlesPath = %s, want %s", cfg.BundlesPath, DefaultBundlesPath)
	}
	if cfg.RESTAddr != DefaultRESTAddr {
		t.Errorf("RESTAddr = %s, want %s", cfg.RESTAddr, DefaultRESTAddr)
	}
	if cfg.MaxResults != DefaultMaxResults {
		t.Errorf("MaxResults = %d, want %d", cfg.MaxResults, DefaultMaxResults)
	}
	if cfg.WatchBundles {
		t.Error("WatchBundles should default to false")
	}
}

func TestLoadDataSource(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		want     DataSource
		wantPath string
		wantErr  bool
	}{
		{"local", "local", SourceLocal, "data/codex.json", false},
		{"yaml", "yaml", SourceYAML, "data/codex.yaml", false},
		{"sqlite", "sqlite", SourceSQLite, "data/codex.db", false},
		{"case-insensitive", "SQLite", SourceSQLite, "data/codex.db", false},
		{"unknown", "postgres", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("COMPTEXT_DATA_SOURCE", tt.value)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.DataSource != tt.want {
				t.Errorf("DataSource = %s, want %s", cfg.DataSource, tt.want)
			}
			if cfg.CodexPath != tt.wantPath {
				t.Errorf("CodexPath = %s, want %s", cfg.CodexPath, tt.wantPath)
			}
		})
	}
}

func TestLoadExplicitPathWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPTEXT_DATA_SOURCE", "sqlite")
	t.Setenv("COMPTEXT_CODEX_PATH", "/var/lib/comptext/codex.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CodexPath != "/var/lib/comptext/codex.db" {
		t.Errorf("CodexPath = %s, explicit path should win", cfg.CodexPath)
	}
}

func TestLoadRESTAddr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"full address", "127.0.0.1:9000", "127.0.0.1:9000"},
		{"colon port", ":9000", ":9000"},
		{"bare port gets colon", "9000", ":9000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("COMPTEXT_REST_ADDR", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.RESTAddr != tt.want {
				t.Errorf("RESTAddr = %s, want %s", cfg.RESTAddr, tt.want)
			}
		})
	}
}

func TestLoadMaxResults(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPTEXT_MAX_RESULTS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxResults != 25 {
		t.Errorf("MaxResults = %d, want 25", cfg.MaxResults)
	}

	for _, bad := range []string{"zero", "0", "-3", "abc"} {
		t.Setenv("COMPTEXT_MAX_RESULTS", bad)
		if _, err := Load(); err == nil {
			t.Errorf("Load accepted COMPTEXT_MAX_RESULTS=%q", bad)
		}
	}
}

func TestLoadWatchBundles(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPTEXT_WATCH_BUNDLES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.WatchBundles {
		t.Error("WatchBundles should be true")
	}

	t.Setenv("COMPTEXT_WATCH_BUNDLES", "maybe")
	if _, err := Load(); err == nil {
		t.Error("Load accepted COMPTEXT_WATCH_BUNDLES=maybe")
	}
}
