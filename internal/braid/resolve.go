package braid

import (
	"context"

	"go.uber.org/zap"

	"constraintcore/internal/logging"
	"constraintcore/internal/resolverclient"
	"constraintcore/internal/types"
)

// resolution is the outcome of resolving one conflict: either disable one
// side, or replace one/both sides with a modified/merged constraint.
type resolution struct {
	disable map[int]string // index -> reason
	replace map[int]types.Constraint
}

func newResolution() resolution {
	return resolution{disable: make(map[int]string), replace: make(map[int]types.Constraint)}
}

// resolveConflicts is step 4: apply the default
// priority/confidence/order policy, or delegate to an external resolver
// when configured, falling back to the default policy on any resolver
// failure. Returns ConflictsUnresolvableError only when an external
// resolver actively chose merge/modify and the resulting constraint is
// itself invalid — a resolver *failure* (network, timeout, bad status) is
// not fatal and silently falls back instead.
func resolveConflicts(ctx context.Context, ordered []types.Constraint, conflicts []conflict, resolver *resolverclient.Client, log *logging.Logger) (resolution, error) {
	res := newResolution()
	if log == nil {
		log = logging.Noop()
	}

	for _, c := range conflicts {
		if resolver != nil {
			actions, err := resolver.Resolve(ctx, []resolverclient.Conflict{{
				A: ordered[c.A], B: ordered[c.B], Reason: c.Reason,
			}})
			if err != nil {
				log.Warn(logging.CategoryCompilation, "external resolver failed, falling back to default policy",
					zap.Error(err))
			} else {
				if err := applyExternalResolution(&res, ordered, c, actions[0]); err != nil {
					return resolution{}, err
				}
				continue
			}
		}
		if c.Circular {
			// The default policy does not break dependency cycles: disabling
			// either side is an arbitrary semantic choice, not a priority
			// judgment. The cycle survives to topoSort, which reports
			// UnresolvedCycle with the full member list.
			continue
		}
		applyDefaultResolution(&res, ordered, c)
	}
	return res, nil
}

func applyExternalResolution(res *resolution, ordered []types.Constraint, c conflict, r resolverclient.Resolution) error {
	switch r.Action {
	case resolverclient.ActionDisableA:
		res.disable[c.A] = "external resolver: disable-A for " + c.Reason
	case resolverclient.ActionDisableB:
		res.disable[c.B] = "external resolver: disable-B for " + c.Reason
	case resolverclient.ActionMerge:
		if r.Merged == nil {
			return unresolvable(ordered, c, "resolver chose merge with no merged constraint")
		}
		if err := r.Merged.Validate(); err != nil {
			return unresolvable(ordered, c, "merged constraint invalid: "+err.Error())
		}
		res.replace[c.A] = *r.Merged
		res.disable[c.B] = "external resolver: merged into " + r.Merged.Name
	case resolverclient.ActionModifyA:
		if r.ModifiedA == nil {
			return unresolvable(ordered, c, "resolver chose modify-A with no replacement")
		}
		if err := r.ModifiedA.Validate(); err != nil {
			return unresolvable(ordered, c, "modified constraint A invalid: "+err.Error())
		}
		res.replace[c.A] = *r.ModifiedA
	case resolverclient.ActionModifyB:
		if r.ModifiedB == nil {
			return unresolvable(ordered, c, "resolver chose modify-B with no replacement")
		}
		if err := r.ModifiedB.Validate(); err != nil {
			return unresolvable(ordered, c, "modified constraint B invalid: "+err.Error())
		}
		res.replace[c.B] = *r.ModifiedB
	}
	return nil
}

func unresolvable(ordered []types.Constraint, c conflict, reason string) error {
	a, b := ordered[c.A], ordered[c.B]
	return &types.ConflictsUnresolvableError{
		ConstraintAID: a.ID,
		ConstraintBID: b.ID,
		NameA:         a.Name,
		NameB:         b.Name,
		RefA:          types.RefOf(a),
		RefB:          types.RefOf(b),
		Reason:        reason,
	}
}

// applyDefaultResolution implements the default policy:
// higher priority wins; on priority tie, higher confidence wins; on full
// tie, the earlier constraint in normalized order wins. The recorded
// reason names which tier decided the conflict.
func applyDefaultResolution(res *resolution, ordered []types.Constraint, c conflict) {
	a, b := ordered[c.A], ordered[c.B]
	loser := c.B
	reason := "priority_dominated"
	switch {
	case a.Priority != b.Priority:
		if b.Priority > a.Priority {
			loser = c.A
		}
	case confidenceOf(a) != confidenceOf(b):
		reason = "confidence_dominated"
		if confidenceOf(b) > confidenceOf(a) {
			loser = c.A
		}
	default:
		reason = "order_dominated"
		if c.B < c.A {
			loser = c.A
		}
	}
	res.disable[loser] = reason
}

func confidenceOf(c types.Constraint) float64 {
	if c.Provenance == nil {
		return 0
	}
	return c.Provenance.Confidence
}
