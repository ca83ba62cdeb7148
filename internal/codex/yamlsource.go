package codex

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlFile mirrors the on-disk modules.yaml layout: a small metadata
// header plus the flat entry list.
type yamlFile struct {
	Version     string  `yaml:"version"`
	Format      string  `yaml:"format"`
	Description string  `yaml:"description"`
	Entries     []Entry `yaml:"entries"`
}

// NewYAMLSource loads a codex from a YAML file. Read behavior is
// identical to the JSON source, so it reuses the in-memory source
// underneath; only the decoding differs.
func NewYAMLSource(path string) (*LocalSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading codex %s: %w", path, err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing codex %s: %w", path, err)
	}
	if file.Format != "" && file.Format != "comptext-codex" {
		return nil, fmt.Errorf("codex %s: unsupported format %q", path, file.Format)
	}

	return newMemorySource(file.Entries), nil
}
