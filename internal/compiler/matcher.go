package compiler

import "strings"

// Match is the outcome of scoring one bundle against input text.
type Match struct {
	BundleID  string
	Score     int      // raw score before the ambiguity penalty
	Hits      []string // keywords that matched, in bundle order
	DomainHit bool     // domain bonus applied
	TaskHit   bool     // task bonus applied
}

// Selection is the matcher's final verdict for an input.
type Selection struct {
	Match    *Match // nil when nothing scored above zero
	Adjusted int    // top score after the ambiguity penalty, floor 0
}

// domainTriggers biases scoring toward a bundle whose domain is
// plainly mentioned in the input. One bonus point per bundle at most,
// no matter how many triggers fire. The code table deliberately omits
// the bare token "code" — it appears in almost every request and would
// drown out the keyword signal.
var domainTriggers = map[string][]string{
	"docs":     {"docs", "documentation", "readme", "openapi", "swagger"},
	"security": {"security", "vulnerability", "cve", "owasp"},
	"devops":   {"ci", "cd", "github actions", "kubernetes", "helm", "deploy"},
	"code":     {"function", "class", "refactor", "debug", "performance"},
}

// taskTriggers is the task analogue of domainTriggers: +1 at most per
// bundle when the input names the task outright. Triggers are kept
// specific (mostly multi-word) so they don't shadow bundle keywords.
var taskTriggers = map[string][]string{
	"review":   {"code review", "pull request", "merge request"},
	"optimize": {"speed up", "too slow", "profiling"},
	"debug":    {"stack trace", "root cause", "crash"},
	"scan":     {"security scan", "penetration test", "audit"},
	"document": {"write docs", "api documentation", "docstring"},
	"deploy":   {"roll out", "release pipeline", "deployment"},
}

// normalize lowercases the input and collapses runs of whitespace.
// This is the only normalization: no stemming, no tokenization.
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// containsAny reports whether any trigger occurs in the normalized text.
func containsAny(text string, triggers []string) bool {
	for _, trig := range triggers {
		if strings.Contains(text, trig) {
			return true
		}
	}
	return false
}

// ScoreBundles scores every registered bundle against the input text.
// Per bundle: +2 for each keyword occurring as a substring of the
// normalized input, +1 domain bonus, +1 task bonus. Bundles scoring
// zero are omitted. Results keep registry insertion order, so the
// first entry of the best score is the deterministic winner.
func ScoreBundles(text string, reg *Registry) []Match {
	t := normalize(text)
	if t == "" {
		return nil
	}

	var results []Match
	for _, b := range reg.Bundles() {
		m := Match{BundleID: b.ID}
		for _, kw := range b.Match.KeywordsAny {
			nkw := normalize(kw)
			if nkw != "" && strings.Contains(t, nkw) {
				m.Score += 2
				m.Hits = append(m.Hits, kw)
			}
		}
		if containsAny(t, domainTriggers[b.Domain]) {
			m.Score++
			m.DomainHit = true
		}
		if containsAny(t, taskTriggers[b.Task]) {
			m.Score++
			m.TaskHit = true
		}
		if m.Score > 0 {
			results = append(results, m)
		}
	}
	return results
}

// BestBundle selects the single best match for the input, applying the
// ambiguity penalty when the runner-up is within one point of the top
// score. The penalty dampens confidence only — it never changes which
// bundle wins. Ties on raw score go to the first-registered bundle.
func BestBundle(text string, reg *Registry) Selection {
	results := ScoreBundles(text, reg)
	if len(results) == 0 {
		return Selection{}
	}

	top := 0
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[top].Score {
			top = i
		}
	}

	second := -1
	for i := range results {
		if i == top {
			continue
		}
		if second == -1 || results[i].Score > results[second].Score {
			second = i
		}
	}

	adjusted := results[top].Score
	if second != -1 && results[top].Score-results[second].Score <= 1 {
		adjusted--
	}
	if adjusted < 0 {
		adjusted = 0
	}

	match := results[top]
	return Selection{Match: &match, Adjusted: adjusted}
}
