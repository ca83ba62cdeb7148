package codex

import (
	"strings"
	"testing"
)

func TestResolveModule(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"letter", "B", "Module B: Programming"},
		{"lowercase letter", "b", "Module B: Programming"},
		{"full name passes through", "Module I: Security & Compliance", "Module I: Security & Compliance"},
		{"unknown passes through", "Module Z: Nope", "Module Z: Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModule(tt.input); got != tt.want {
				t.Errorf("ResolveModule(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModuleLetters(t *testing.T) {
	letters := ModuleLetters()
	if len(letters) != len(ModuleMap) {
		t.Fatalf("got %d letters, want %d", len(letters), len(ModuleMap))
	}
	if letters[0] != "A" || letters[len(letters)-1] != "M" {
		t.Errorf("letters not sorted: %v", letters)
	}
	for i := 1; i < len(letters); i++ {
		if letters[i-1] >= letters[i] {
			t.Errorf("letters out of order at %d: %v", i, letters)
		}
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"valid", "api docs", "api docs", false},
		{"trims whitespace", "  api docs  ", "api docs", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"at limit", strings.Repeat("a", MaxQueryLength), strings.Repeat("a", MaxQueryLength), false},
		{"over limit", strings.Repeat("a", MaxQueryLength+1), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean text untouched", "hello world", "hello world"},
		{"keeps newline and tab", "a\nb\tc", "a\nb\tc"},
		{"strips control chars", "a\x00b\x1bc\rd", "abcd"},
		{"empty", "", ""},
		{"unicode kept", "héllo ☃", "héllo ☃"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than limit", "short", 10, "short"},
		{"exactly at limit", "exact", 5, "exact"},
		{"truncated with ellipsis", "a long sentence here", 10, "a long ..."},
		{"tiny limit skips ellipsis", "abcdef", 2, "ab"},
		{"empty", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateText(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateText(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
			if len(got) > tt.maxLen {
				t.Errorf("result %q exceeds max length %d", got, tt.maxLen)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	entries := []Entry{
		{ID: "1", Module: "Module B: Programming", Type: "command", Tags: []string{"go", "cli"}},
		{ID: "2", Module: "Module B: Programming", Type: "example", Tags: []string{"go"}},
		{ID: "3", Module: "Module F: Documentation", Type: "command"},
		{ID: "4"},
	}

	stats := ComputeStats(entries)

	if stats.TotalEntries != 4 {
		t.Errorf("TotalEntries = %d, want 4", stats.TotalEntries)
	}
	if stats.ByModule["Module B: Programming"] != 2 {
		t.Errorf("ByModule[programming] = %d, want 2", stats.ByModule["Module B: Programming"])
	}
	if stats.ByType["command"] != 2 {
		t.Errorf("ByType[command] = %d, want 2", stats.ByType["command"])
	}
	if stats.ByTag["go"] != 2 {
		t.Errorf("ByTag[go] = %d, want 2", stats.ByTag["go"])
	}
	if _, ok := stats.ByModule[""]; ok {
		t.Error("empty module should not be tallied")
	}
}
