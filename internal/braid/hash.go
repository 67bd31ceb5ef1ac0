package braid

import (
	"github.com/cespare/xxhash/v2"

	"constraintcore/internal/cache"
	"constraintcore/internal/types"
)

// ContentHash computes the cache key for ordered: the content hash of the
// canonical serialization of the step-1 normalized order, not whatever
// order the caller built the ConstraintSet in, so that two ConstraintSets
// built by inserting the same constraints in different orders still hash
// identically. types.ConstraintSet's own CanonicalJSON preserves insertion
// order by design; rebuilding a throwaway set in normalized order before
// hashing is what reconciles that with the determinism requirement.
func ContentHash(ordered []types.Constraint) (cache.Key, error) {
	normalizedSet := types.NewConstraintSet()
	for _, c := range ordered {
		if err := normalizedSet.Add(c); err != nil {
			return 0, err
		}
	}
	canonical, err := types.CanonicalJSON(normalizedSet)
	if err != nil {
		return 0, err
	}
	return cache.Key(xxhash.Sum64(canonical)), nil
}
