package compiler

import (
	"sort"
	"strings"
)

// RenderDSL renders the canonical CompText DSL body: exactly one
// profile line first, then one line per bundle, each optionally
// carrying sorted +key=value delta tokens. Identical inputs produce
// byte-identical output — there is no randomness or hidden state.
func RenderDSL(profileID string, bundleIDs []string, deltas []string) string {
	lines := make([]string, 0, 1+len(bundleIDs))
	lines = append(lines, "use:"+profileID)

	var deltaSuffix string
	if len(deltas) > 0 {
		sorted := make([]string, len(deltas))
		copy(sorted, deltas)
		sort.Strings(sorted)
		deltaSuffix = " " + strings.Join(sorted, " ")
	}

	for _, id := range bundleIDs {
		lines = append(lines, "use:"+id+deltaSuffix)
	}
	return strings.Join(lines, "\n")
}
