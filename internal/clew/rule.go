// Package clew is the Extraction Engine: a two-stage pipeline
// (tree-sitter syntax stage, falling back to a line/token scanner) that
// applies a declarative pattern library to produce a deduplicated
// ConstraintSet with provenance and confidence.
package clew

import "constraintcore/internal/types"

// Position is a byte/line location a Rule matched at.
type Position struct {
	Line      int
	EndLine   int
	ByteStart int
	InString  bool
	InComment bool
	InTest    bool
}

// MatchInput is what a Rule's Predicate inspects: either a syntax-tree node
// (via NodeKind + NodeText when the grammar path is available) or a scanned
// token (via Token) when it falls back.
type MatchInput struct {
	NodeKind string
	NodeText string
	Token    string
	Pos      Position
}

// Template is the constraint shape a matching Rule emits.
type Template struct {
	Kind            types.Kind
	Name            string
	Description     string
	Priority        types.Priority
	DefaultSeverity types.Severity
	Enforcement     func(MatchInput) types.Enforcement
	Produces        []string
	Consumes        []string
}

// Rule is one entry in the pattern library.
// Matching is order-independent: two rules matching the same location both
// fire (dedup is handled downstream by ConstraintSet.Add).
type Rule struct {
	Name string
	// Anchor is the rule's literal first-byte anchor, if it has one; used to
	// build the byte -> []Rule index. A rule
	// with no literal anchor (Anchor == 0) is checked at every position.
	Anchor byte
	// Predicate reports whether in matches this rule's pattern.
	Predicate func(in MatchInput) bool
	// BaseConfidence is in [0,1]; Confidence reduces it for matches inside a
	// string/comment/test region.
	BaseConfidence float64
	Template       Template
}

// Confidence reduces the base confidence for matches found inside a
// string literal, a comment, or a test-only region.
func (r Rule) Confidence(in MatchInput) float64 {
	c := r.BaseConfidence
	if in.Pos.InString {
		c *= 0.5
	}
	if in.Pos.InComment {
		c *= 0.4
	}
	if in.Pos.InTest {
		c *= 0.7
	}
	if c > 1 {
		c = 1
	}
	return c
}
