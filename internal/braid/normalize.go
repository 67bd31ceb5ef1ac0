package braid

import (
	"sort"

	"constraintcore/internal/types"
)

// normalize is step 1: sort by (priority descending, kind,
// name) to produce the stable working order every later step (and the
// content hash) is keyed against. The input set is validated constraint by
// constraint — a set already accepted by ConstraintSet.Add is individually
// valid, so this re-checks nothing new; it exists as the documented
// pre/post-condition boundary of the pipeline.
func normalize(set *types.ConstraintSet) ([]types.Constraint, error) {
	ordered := append([]types.Constraint(nil), set.Items()...)
	for i := range ordered {
		if err := ordered[i].Validate(); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		if ordered[i].Kind != ordered[j].Kind {
			return ordered[i].Kind < ordered[j].Kind
		}
		return ordered[i].Name < ordered[j].Name
	})
	return ordered, nil
}
