package compiler

import (
	"fmt"
	"strings"
)

// --- Mode enum ---

// Mode controls how the compiler behaves when no bundle matches well.
type Mode string

const (
	// ModeBundleOnly never guesses: low confidence yields a
	// clarification question instead of DSL.
	ModeBundleOnly Mode = "bundle_only"
	// ModeAllowInlineFallback is accepted for forward compatibility
	// but currently behaves exactly like ModeBundleOnly. Inline
	// command synthesis is not implemented; callers should not rely
	// on any difference between the two modes yet.
	ModeAllowInlineFallback Mode = "allow_inline_fallback"
)

// ParseMode maps a raw string to a Mode, defaulting to bundle_only.
func ParseMode(s string) Mode {
	if Mode(s) == ModeAllowInlineFallback {
		return ModeAllowInlineFallback
	}
	return ModeBundleOnly
}

// --- ReturnMode enum ---

// ReturnMode selects which fields appear in the rendered text output.
type ReturnMode string

const (
	ReturnDSLOnly            ReturnMode = "dsl_only"
	ReturnDSLPlusConfidence  ReturnMode = "dsl_plus_confidence"
	ReturnDSLPlusExplanation ReturnMode = "dsl_plus_explanation"
)

// ParseReturnMode maps a raw string to a ReturnMode, defaulting to
// dsl_plus_confidence.
func ParseReturnMode(s string) ReturnMode {
	switch ReturnMode(s) {
	case ReturnDSLOnly:
		return ReturnDSLOnly
	case ReturnDSLPlusExplanation:
		return ReturnDSLPlusExplanation
	default:
		return ReturnDSLPlusConfidence
	}
}

// --- Request / Result ---

// Request is one compilation call. Zero values for Audience, Mode, and
// ReturnMode select the documented defaults.
type Request struct {
	Text       string
	Audience   Audience
	Mode       Mode
	ReturnMode ReturnMode
	// Deltas are pass-through +key=value tokens appended to the
	// bundle line. The compiler never computes them.
	Deltas []string
}

// Result is the structured compilation outcome. DSL and Clarification
// are mutually exclusive: below the confidence threshold the DSL is
// empty and Clarification carries the question; at or above it the
// DSL is populated and Clarification is empty.
type Result struct {
	DSL           string  `json:"dsl"`
	Confidence    float64 `json:"confidence"`
	Clarification string  `json:"clarification,omitempty"`
	Explanation   string  `json:"explanation,omitempty"`
	BundleID      string  `json:"bundle_id,omitempty"`
}

const (
	// confidenceDivisor normalizes the adjusted score into [0,1].
	// Tuned so that three to four keyword hits or a strong domain
	// match saturate to 1.0.
	confidenceDivisor = 7.0

	// ConfidenceThreshold gates DSL emission: below it the compiler
	// asks for clarification instead of guessing.
	ConfidenceThreshold = 0.65
)

// clarifyingQuestion is the fixed, deterministic fallback for
// low-confidence input. It is intentionally static — not derived from
// the top-scoring bundles — so repeated ambiguous requests get the
// same answer.
const clarifyingQuestion = "Did you mean code review, performance optimization, " +
	"debugging, security scan, or documentation? Please pick one."

// confidence converts an adjusted score into a bounded [0,1] value.
func confidence(adjusted int) float64 {
	if adjusted < 0 {
		adjusted = 0
	}
	c := float64(adjusted) / confidenceDivisor
	if c > 1.0 {
		return 1.0
	}
	return c
}

// Compile maps natural-language text to canonical CompText DSL.
//
// Every input — empty, whitespace, non-ASCII, adversarial — yields a
// well-formed Result; there is no invalid-input path. The only error
// return is an internal invariant violation: the matcher selected a
// bundle id absent from the registry, which indicates a bug, never a
// user condition.
func Compile(reg *Registry, req Request) (Result, error) {
	aud := req.Audience
	if aud == "" {
		aud = AudienceDev
	}
	// req.Mode is accepted but not branched on: allow_inline_fallback
	// behaves like bundle_only until inline synthesis exists.

	profileID := reg.ProfileID(aud)
	sel := BestBundle(req.Text, reg)

	conf := 0.0
	if sel.Match != nil {
		conf = confidence(sel.Adjusted)
	}

	if sel.Match == nil || conf < ConfidenceThreshold {
		return Result{
			Confidence:    conf,
			Clarification: clarifyingQuestion,
		}, nil
	}

	if _, ok := reg.Bundle(sel.Match.BundleID); !ok {
		return Result{}, fmt.Errorf("internal error: selected bundle %q not found in registry", sel.Match.BundleID)
	}

	return Result{
		DSL:         RenderDSL(profileID, []string{sel.Match.BundleID}, req.Deltas),
		Confidence:  conf,
		Explanation: explain(*sel.Match),
		BundleID:    sel.Match.BundleID,
	}, nil
}

// explain builds the human-readable match rationale used by the
// dsl_plus_explanation return mode.
func explain(m Match) string {
	hits := "n/a"
	if len(m.Hits) > 0 {
		hits = strings.Join(m.Hits, ", ")
	}
	s := fmt.Sprintf("Matched bundle '%s' via keywords: %s", m.BundleID, hits)
	if m.DomainHit {
		s += " (domain bonus applied)"
	}
	return s
}

// RenderText serializes a Result into the canonical text format:
//
//	dsl:
//	<dsl body, one directive per line>
//
//	confidence: <0.00-1.00>
//	clarification: <null | question>
//	explanation: <text>          (dsl_plus_explanation only)
//
// In dsl_only mode the bare DSL body (or, when clarifying, the bare
// question) is returned without the surrounding fields.
func RenderText(res Result, mode ReturnMode) string {
	clarifying := res.Clarification != ""

	if mode == ReturnDSLOnly {
		if clarifying {
			return res.Clarification
		}
		return res.DSL
	}

	if clarifying {
		return fmt.Sprintf("dsl:\n\nconfidence: %.2f\nclarification: %s", res.Confidence, res.Clarification)
	}

	out := fmt.Sprintf("dsl:\n%s\n\nconfidence: %.2f\nclarification: null", res.DSL, res.Confidence)
	if mode == ReturnDSLPlusExplanation {
		out += "\nexplanation: " + res.Explanation
	}
	return out
}
