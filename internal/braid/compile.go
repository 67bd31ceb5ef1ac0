// Package braid is the Compilation Engine: it takes a validated
// types.ConstraintSet and produces a token-level-enforcement IR plus a
// manifest tracing each IR fragment back to its source constraints. The
// six steps — normalize, build dependency graph, detect conflicts,
// resolve, topologically sort, emit IR — run in that fixed order on every
// Compile call; only the external-resolver delegation and the cache
// short-circuit around the whole pipeline are configurable.
package braid

import (
	"context"

	"constraintcore/internal/cache"
	"constraintcore/internal/logging"
	"constraintcore/internal/resolverclient"
	"constraintcore/internal/types"
)

// Options configures one Compile call. All fields are optional; a nil
// Cache or Resolver simply disables that stage.
type Options struct {
	Cache    *cache.Cache
	Resolver *resolverclient.Client
	Logger   *logging.Logger
}

// Compile is BRAID's primary operation. It runs the
// normalize -> graph -> conflicts -> resolve -> toposort -> emit pipeline,
// short-circuiting on a cache hit keyed by the content hash of the
// normalized constraint list.
func Compile(ctx context.Context, set *types.ConstraintSet, opts Options) (types.ConstraintIR, types.Manifest, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}

	ordered, err := normalize(set)
	if err != nil {
		return types.ConstraintIR{}, types.Manifest{}, err
	}

	key, err := ContentHash(ordered)
	if err != nil {
		return types.ConstraintIR{}, types.Manifest{}, &types.CompilationError{Reason: "content hash: " + err.Error()}
	}

	if opts.Cache != nil {
		if ir, manifest, ok := opts.Cache.Get(key); ok {
			log.Debug(logging.CategoryCache, "compile cache hit")
			return ir, manifest, nil
		}
		log.Debug(logging.CategoryCache, "compile cache miss")
	}

	g := buildGraph(ordered)

	conflicts := detectConflicts(ordered)
	conflicts = append(conflicts, detectCycles(g, len(ordered))...)

	res, err := resolveConflicts(ctx, ordered, conflicts, opts.Resolver, log)
	if err != nil {
		return types.ConstraintIR{}, types.Manifest{}, err
	}

	// Rebuild the graph over the resolved constraint list (replacements
	// applied) and the disabled set, so topoSort walks the edges that
	// actually survive resolution rather than the pre-resolution graph.
	resolved := append([]types.Constraint(nil), ordered...)
	for idx, c := range res.replace {
		resolved[idx] = c
	}
	g = buildGraph(resolved)

	topo, err := topoSort(resolved, g, res.disable)
	if err != nil {
		return types.ConstraintIR{}, types.Manifest{}, err
	}

	ir, manifest, err := emit(resolved, topo, res.disable, nil)
	if err != nil {
		return types.ConstraintIR{}, types.Manifest{}, err
	}

	if opts.Cache != nil {
		opts.Cache.Put(key, ir, manifest)
	}

	return ir, manifest, nil
}
