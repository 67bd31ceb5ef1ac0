package braid

import "constraintcore/internal/types"

// conflict is one detected pair, indices into the normalized slice.
type conflict struct {
	A, B   int
	Reason string
	// Circular marks a circular-dependency conflict.
	// The default policy cannot break a dependency cycle — disabling either
	// side is an arbitrary semantic choice, not a priority judgment — so
	// only an external resolver acts on these; otherwise the cycle survives
	// to step 5 and Compile fails with UnresolvedCycle.
	Circular bool
}

// conflictTarget is one (key, action) pair a constraint's enforcement
// contributes to conflict detection; a single constraint can contribute
// more than one (e.g. a Type enforcement with several forbidden types).
type conflictTarget struct {
	key    string
	action string
}

func targetsOf(c types.Constraint) []conflictTarget {
	e := c.Enforcement
	switch e.Tag {
	case types.EnforcementStructural:
		return []conflictTarget{{key: e.Structural.NodeKind + "|" + e.Structural.Pattern, action: string(e.Structural.Action)}}
	case types.EnforcementType:
		var out []conflictTarget
		for _, t := range e.Type.ForbiddenTypes {
			out = append(out, conflictTarget{key: "type:" + t, action: "forbid"})
		}
		for _, t := range e.Type.RequiredTypes {
			out = append(out, conflictTarget{key: "type:" + t, action: "require"})
		}
		return out
	case types.EnforcementRegex:
		return []conflictTarget{{key: "regex:" + e.Regex.Pattern, action: string(e.Regex.Action)}}
	case types.EnforcementTokenMask:
		out := make([]conflictTarget, 0, len(e.TokenMask.Rules))
		for _, r := range e.TokenMask.Rules {
			out = append(out, conflictTarget{key: "mask:" + r.Pattern, action: r.Action})
		}
		return out
	default:
		// JSONSchema and Semantic enforcement never contradict at the
		// forbid/require level this detector checks.
		return nil
	}
}

func contradicts(a, b string) bool {
	return (a == "forbid" && b == "require") || (a == "require" && b == "forbid")
}

// detectConflicts buckets ordered by kind — most conflict classes are
// intra-kind — and, within each bucket, groups by target key so
// only within-group pairs are compared — O(n log n) via the bucket+group
// maps rather than the naive O(c²) all-pairs scan. Iteration follows the
// normalized order already established by normalize(), so the first
// contradiction found within a group is reported deterministically.
func detectConflicts(ordered []types.Constraint) []conflict {
	buckets := make(map[types.Kind][]int)
	for i, c := range ordered {
		buckets[c.Kind] = append(buckets[c.Kind], i)
	}

	var conflicts []conflict
	for _, indices := range buckets {
		groups := make(map[string][]int)
		for _, i := range indices {
			for _, t := range targetsOf(ordered[i]) {
				groups[t.key] = append(groups[t.key], i)
			}
		}
		for key, members := range groups {
			for x := 0; x < len(members); x++ {
				for y := x + 1; y < len(members); y++ {
					i, j := members[x], members[y]
					actionI := actionFor(ordered[i], key)
					actionJ := actionFor(ordered[j], key)
					if contradicts(actionI, actionJ) {
						conflicts = append(conflicts, conflict{
							A:      i,
							B:      j,
							Reason: "contradictory forbid/require on " + key,
						})
					}
				}
			}
		}
	}
	return conflicts
}

func actionFor(c types.Constraint, key string) string {
	for _, t := range targetsOf(c) {
		if t.key == key {
			return t.action
		}
	}
	return ""
}

// detectCycles extracts a cycle from g via DFS coloring and reports it as
// a circular-dependency conflict between the first two nodes found, so the
// resolution step can offer it to an external resolver.
func detectCycles(g *graph, n int) []conflict {
	var conflicts []conflict
	members := g.cycleMembers(n)
	if len(members) >= 2 {
		conflicts = append(conflicts, conflict{
			A:        members[0],
			B:        members[1],
			Reason:   "circular-dependency",
			Circular: true,
		})
	}
	return conflicts
}
