// Package compiler implements the NL→CompText compiler: a deterministic
// pipeline that maps free-text requests to the canonical CompText DSL
// (one profile directive followed by one bundle directive).
//
// The pipeline is pure: given an immutable Registry and a Request it
// always produces the same Result, performs no I/O, and holds no state
// between calls. The only phase that touches the filesystem is
// LoadRegistry, which runs once at process start.
package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// --- Audience enum ---

// Audience identifies the target reader of the compiled output.
// Exactly three audiences exist; each maps to one profile id.
type Audience string

const (
	AudienceDev   Audience = "dev"
	AudienceAudit Audience = "audit"
	AudienceExec  Audience = "exec"
)

// ParseAudience maps a raw string to an Audience, defaulting to dev
// for empty or unrecognized input. Matching is intentionally lenient:
// compilation never rejects a request over a bad audience value.
func ParseAudience(s string) Audience {
	switch Audience(s) {
	case AudienceAudit:
		return AudienceAudit
	case AudienceExec:
		return AudienceExec
	default:
		return AudienceDev
	}
}

// profileByAudience maps each audience to its profile id. Total by
// construction: every representable Audience has an entry.
var profileByAudience = map[Audience]string{
	AudienceDev:   "profile.dev.v1",
	AudienceAudit: "profile.audit.v1",
	AudienceExec:  "profile.exec.v1",
}

// requiredProfiles is the closed set of profile ids the registry must
// declare. The compiler refuses to start without all three.
var requiredProfiles = map[string]bool{
	"profile.dev.v1":   true,
	"profile.audit.v1": true,
	"profile.exec.v1":  true,
}

// --- Definitions ---

// Profile is an audience-targeted directive, always emitted first in
// the DSL output. Expansion content is opaque to the compiler.
type Profile struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Expansion []string `yaml:"expansion"`
}

// Bundle is a pre-vetted set of DSL expansion content plus the
// metadata used to match it against natural-language input.
type Bundle struct {
	ID        string      `yaml:"id"`
	Domain    string      `yaml:"domain"`
	Task      string      `yaml:"task"`
	Match     BundleMatch `yaml:"match"`
	Expansion []string    `yaml:"expansion"`
}

// BundleMatch holds the keyword set used for scoring. Keywords match
// case-insensitively as substrings of the normalized input.
type BundleMatch struct {
	KeywordsAny []string `yaml:"keywords_any"`
}

// --- Registry ---

// Registry is the immutable, validated catalog of all bundles and
// profiles. It is constructed once and never mutated, so concurrent
// reads need no locking. Bundle insertion order is preserved for
// deterministic tie-breaking in the matcher.
type Registry struct {
	bundles  []Bundle
	byID     map[string]Bundle
	profiles map[string]Profile
}

// registryFile mirrors the on-disk bundles.yaml layout.
type registryFile struct {
	Profiles []Profile `yaml:"profiles"`
	Bundles  []Bundle  `yaml:"bundles"`
}

// LoadRegistry reads and validates the bundle registry from a YAML
// file. Any defect is a configuration error: the process should refuse
// to serve requests rather than run with a corrupt registry.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	return ParseRegistry(data)
}

// ParseRegistry validates a YAML registry document and builds the
// in-memory Registry. Exposed separately from LoadRegistry so tests
// and embedded registries can skip the filesystem.
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	reg := &Registry{
		byID:     make(map[string]Bundle, len(file.Bundles)),
		profiles: make(map[string]Profile, len(file.Profiles)),
	}

	for _, p := range file.Profiles {
		if !requiredProfiles[p.ID] {
			return nil, fmt.Errorf("registry: unrecognized profile id %q", p.ID)
		}
		if _, dup := reg.profiles[p.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate profile id %q", p.ID)
		}
		reg.profiles[p.ID] = p
	}
	for id := range requiredProfiles {
		if _, ok := reg.profiles[id]; !ok {
			return nil, fmt.Errorf("registry: missing required profile %q", id)
		}
	}

	for _, b := range file.Bundles {
		if b.ID == "" {
			return nil, fmt.Errorf("registry: bundle with empty id")
		}
		if _, dup := reg.byID[b.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate bundle id %q", b.ID)
		}
		if len(b.Match.KeywordsAny) == 0 {
			return nil, fmt.Errorf("registry: bundle %q has no keywords", b.ID)
		}
		for _, kw := range b.Match.KeywordsAny {
			if kw == "" {
				return nil, fmt.Errorf("registry: bundle %q has an empty keyword", b.ID)
			}
		}
		reg.bundles = append(reg.bundles, b)
		reg.byID[b.ID] = b
	}

	return reg, nil
}

// Bundles returns all bundles in registration order. Callers must not
// mutate the returned slice.
func (r *Registry) Bundles() []Bundle {
	return r.bundles
}

// Bundle looks up a bundle by id.
func (r *Registry) Bundle(id string) (Bundle, bool) {
	b, ok := r.byID[id]
	return b, ok
}

// ProfileID resolves the profile id for an audience. Total: every
// audience value maps to a profile, and registry validation guarantees
// all three profiles exist.
func (r *Registry) ProfileID(a Audience) string {
	return profileByAudience[a]
}

// Profile looks up a profile definition by id.
func (r *Registry) Profile(id string) (Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}
