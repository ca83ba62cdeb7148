package compiler

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Review THIS Code", "review this code"},
		{"  spaced\t out \n text ", "spaced out text"},
		{"", ""},
		{"   \t\n ", ""},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreBundles_KeywordHits(t *testing.T) {
	reg := testRegistry(t)

	results := ScoreBundles("Review this code and improve readability", reg)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	m := results[0]
	if m.BundleID != "code.review.v1" {
		t.Errorf("BundleID = %s, want code.review.v1", m.BundleID)
	}
	// Two keyword hits at +2 each; the code-domain trigger table does
	// not include the bare token "code", so no domain bonus here.
	if m.Score != 4 {
		t.Errorf("Score = %d, want 4", m.Score)
	}
	if len(m.Hits) != 2 || m.Hits[0] != "review" || m.Hits[1] != "readability" {
		t.Errorf("Hits = %v, want [review readability]", m.Hits)
	}
	if m.DomainHit {
		t.Error("DomainHit = true, want false")
	}
}

func TestScoreBundles_DomainBonusAppliedOnce(t *testing.T) {
	reg := testRegistry(t)

	// Both "vulnerability" keyword (+2) and two security domain
	// triggers ("security", "cve") — the bonus must count once.
	results := ScoreBundles("security vulnerability with a CVE assigned", reg)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Score != 3 {
		t.Errorf("Score = %d, want 3 (2 keyword + 1 domain, not 4)", results[0].Score)
	}
	if !results[0].DomainHit {
		t.Error("DomainHit = false, want true")
	}
}

func TestScoreBundles_TaskBonus(t *testing.T) {
	reg := testRegistry(t)

	// "exploit" keyword (+2), "security scan" task trigger (+1),
	// "security" domain trigger (+1).
	results := ScoreBundles("run a security scan for exploit paths", reg)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Score != 4 {
		t.Errorf("Score = %d, want 4", results[0].Score)
	}
	if !results[0].TaskHit {
		t.Error("TaskHit = false, want true")
	}
}

func TestScoreBundles_EmptyInput(t *testing.T) {
	reg := testRegistry(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		if results := ScoreBundles(text, reg); len(results) != 0 {
			t.Errorf("ScoreBundles(%q) returned %d results, want 0", text, len(results))
		}
	}
}

func TestScoreBundles_NoMatch(t *testing.T) {
	reg := testRegistry(t)

	if results := ScoreBundles("xyzzy plugh quux", reg); len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestScoreBundles_SubstringKeywordsScoreIndependently(t *testing.T) {
	yaml := `
profiles:
  - id: "profile.dev.v1"
  - id: "profile.audit.v1"
  - id: "profile.exec.v1"
bundles:
  - id: "short.v1"
    match: {keywords_any: ["doc"]}
  - id: "long.v1"
    match: {keywords_any: ["docstring"]}
`
	reg, err := ParseRegistry([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}

	// "docstring" contains "doc": both bundles must score on their
	// own keyword — no deduplication across bundles.
	results := ScoreBundles("add a docstring here", reg)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, m := range results {
		if m.Score != 2 {
			t.Errorf("bundle %s score = %d, want 2", m.BundleID, m.Score)
		}
	}
}

func TestBestBundle_NoMatch(t *testing.T) {
	reg := testRegistry(t)

	sel := BestBundle("completely unrelated gibberish", reg)
	if sel.Match != nil {
		t.Errorf("Match = %+v, want nil", sel.Match)
	}
	if sel.Adjusted != 0 {
		t.Errorf("Adjusted = %d, want 0", sel.Adjusted)
	}
}

func TestBestBundle_SingleClearWinner(t *testing.T) {
	reg := testRegistry(t)

	sel := BestBundle("This function is slow, find the bottleneck and optimize it", reg)
	if sel.Match == nil {
		t.Fatal("Match = nil, want code.perfopt.v1")
	}
	if sel.Match.BundleID != "code.perfopt.v1" {
		t.Errorf("BundleID = %s, want code.perfopt.v1", sel.Match.BundleID)
	}
	// Three keyword hits (+6) plus the code-domain trigger "function"
	// (+1). Only one bundle scores, so no ambiguity penalty.
	if sel.Match.Score != 7 {
		t.Errorf("Score = %d, want 7", sel.Match.Score)
	}
	if sel.Adjusted != 7 {
		t.Errorf("Adjusted = %d, want 7", sel.Adjusted)
	}
}

func TestBestBundle_AmbiguityPenalty(t *testing.T) {
	yaml := `
profiles:
  - id: "profile.dev.v1"
  - id: "profile.audit.v1"
  - id: "profile.exec.v1"
bundles:
  - id: "first.v1"
    domain: "security"
    match: {keywords_any: ["alpha", "beta"]}
  - id: "second.v1"
    match: {keywords_any: ["alpha", "security"]}
`
	reg, err := ParseRegistry([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}

	// first.v1: alpha+beta (+4) + security domain trigger (+1) = 5.
	// second.v1: alpha+"security" (+4) = 4. Gap of 1 → penalty.
	sel := BestBundle("alpha beta security", reg)
	if sel.Match == nil {
		t.Fatal("Match = nil")
	}
	if sel.Match.BundleID != "first.v1" {
		t.Errorf("BundleID = %s, want first.v1 (penalty must not change selection)", sel.Match.BundleID)
	}
	if sel.Match.Score != 5 {
		t.Errorf("raw Score = %d, want 5", sel.Match.Score)
	}
	if sel.Adjusted != 4 {
		t.Errorf("Adjusted = %d, want 4 (5 minus ambiguity penalty)", sel.Adjusted)
	}
}

func TestBestBundle_TieBreakByInsertionOrder(t *testing.T) {
	yaml := `
profiles:
  - id: "profile.dev.v1"
  - id: "profile.audit.v1"
  - id: "profile.exec.v1"
bundles:
  - id: "zzz.later-alphabetically.v1"
    match: {keywords_any: ["widget"]}
  - id: "aaa.earlier-alphabetically.v1"
    match: {keywords_any: ["widget"]}
`
	reg, err := ParseRegistry([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}

	sel := BestBundle("ship the widget", reg)
	if sel.Match == nil {
		t.Fatal("Match = nil")
	}
	// Identical scores: the first-registered bundle wins regardless
	// of lexicographic order.
	if sel.Match.BundleID != "zzz.later-alphabetically.v1" {
		t.Errorf("BundleID = %s, want zzz.later-alphabetically.v1", sel.Match.BundleID)
	}
	// Exact tie still triggers the ambiguity penalty.
	if sel.Adjusted != sel.Match.Score-1 {
		t.Errorf("Adjusted = %d, want %d", sel.Adjusted, sel.Match.Score-1)
	}
}

func TestBestBundle_Deterministic(t *testing.T) {
	reg := testRegistry(t)

	text := "Optimize this slow function"
	a := BestBundle(text, reg)
	b := BestBundle(text, reg)
	if a.Match == nil || b.Match == nil {
		t.Fatal("expected matches on both calls")
	}
	if a.Match.BundleID != b.Match.BundleID || a.Adjusted != b.Adjusted {
		t.Errorf("non-deterministic result: %+v vs %+v", a, b)
	}
}
