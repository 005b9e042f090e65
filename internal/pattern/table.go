// Package pattern recognizes conventional multi-channel groups (RGBA, xy,
// uvw and friends) inside a run of channel suffixes.
//
// A [Table] is an ordered list of token sequences. [Table.Spans] walks a
// channel list once, left to right, and at every position tries the patterns
// longest first; the first exact match wins and consumes its tokens.
// Positions no pattern matches become single-channel spans.
package pattern

import (
	"slices"
	"strings"
)

// Pattern is one recognized channel convention, e.g. {R, G, B, A}.
type Pattern []string

func (p Pattern) String() string {
	return "{" + strings.Join(p, ",") + "}"
}

// Table is an ordered pattern list. Declaration order breaks ties between
// patterns of equal length.
type Table []Pattern

// Standard is the six-pattern table used by the viewer's layer selector.
var Standard = Table{
	{"red", "green", "blue"},
	{"A", "B", "G", "R"},
	{"B", "G", "R"},
	{"x", "y"},
	{"u", "v"},
	{"u", "v", "w"},
}

// Extended adds the unsorted RGB(A) orderings, two-channel color pairs and
// xyz vectors to [Standard].
var Extended = Table{
	{"red", "green", "blue"},
	{"A", "B", "G", "R"},
	{"B", "G", "R"},
	{"R", "G", "B", "A"},
	{"R", "G", "B"},
	{"R", "G"},
	{"G", "R"},
	{"x", "y"},
	{"x", "y", "z"},
	{"u", "v"},
	{"u", "v", "w"},
}

// Builtin returns a predefined table by name ("standard" or "extended").
func Builtin(name string) (Table, bool) {
	switch strings.ToLower(name) {
	case "standard":
		return Standard, true
	case "extended":
		return Extended, true
	}
	return nil, false
}

// ByLength returns a copy of t sorted by descending pattern length. The sort
// is stable so equal-length patterns keep their declared order.
func (t Table) ByLength() Table {
	sorted := slices.Clone(t)
	slices.SortStableFunc(sorted, func(a, b Pattern) int {
		return len(b) - len(a)
	})
	return sorted
}

// Contains reports whether t declares a pattern equal to p.
func (t Table) Contains(p Pattern) bool {
	for _, q := range t {
		if slices.Equal(q, p) {
			return true
		}
	}
	return false
}
