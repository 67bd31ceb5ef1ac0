package braid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraintcore/internal/cache"
	"constraintcore/internal/types"
)

func mustConstraint(t *testing.T, kind types.Kind, name string, priority types.Priority, enforcement types.Enforcement) types.Constraint {
	t.Helper()
	c, err := types.NewConstraint(kind, name, priority, types.SeverityWarning, enforcement, types.Source{Tag: types.SourceStaticExtraction})
	require.NoError(t, err)
	return c
}

func forbidTokenMask(pattern string) types.Enforcement {
	return types.Enforcement{Tag: types.EnforcementTokenMask, TokenMask: &types.TokenMaskEnforcement{
		Rules: []types.TokenMaskRule{{Pattern: pattern, Action: "forbid"}},
	}}
}

func requireTokenMask(pattern string) types.Enforcement {
	return types.Enforcement{Tag: types.EnforcementTokenMask, TokenMask: &types.TokenMaskEnforcement{
		Rules: []types.TokenMaskRule{{Pattern: pattern, Action: "require"}},
	}}
}

func TestCompileIsDeterministicAcrossInsertionOrder(t *testing.T) {
	a := mustConstraint(t, types.KindSecurity, "no_eval", types.PriorityHigh, types.Enforcement{
		Tag: types.EnforcementRegex, Regex: &types.RegexEnforcement{Pattern: "eval\\(", Action: types.ActionForbid},
	})
	b := mustConstraint(t, types.KindTypeSafety, "no_any", types.PriorityMedium, types.Enforcement{
		Tag: types.EnforcementType, Type: &types.TypeEnforcement{ForbiddenTypes: []string{"any"}},
	})

	s1 := types.NewConstraintSet()
	require.NoError(t, s1.Add(a))
	require.NoError(t, s1.Add(b))

	s2 := types.NewConstraintSet()
	require.NoError(t, s2.Add(b))
	require.NoError(t, s2.Add(a))

	ir1, manifest1, err := Compile(context.Background(), s1, Options{})
	require.NoError(t, err)
	ir2, manifest2, err := Compile(context.Background(), s2, Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, ir1.TokenMask.Rules, ir2.TokenMask.Rules)
	assert.Len(t, manifest1.Entries, len(manifest2.Entries))
}

func TestCompileCacheHitReturnsSameResultWithoutRecompute(t *testing.T) {
	c, err := cache.New(4)
	require.NoError(t, err)

	a := mustConstraint(t, types.KindSecurity, "no_eval", types.PriorityHigh,
		types.Enforcement{Tag: types.EnforcementRegex, Regex: &types.RegexEnforcement{Pattern: "eval\\(", Action: types.ActionForbid}})
	set := types.NewConstraintSet()
	require.NoError(t, set.Add(a))

	ir1, _, err := Compile(context.Background(), set, Options{Cache: c})
	require.NoError(t, err)
	_, misses := c.Stats()
	assert.Equal(t, uint64(1), misses)

	ir2, _, err := Compile(context.Background(), set, Options{Cache: c})
	require.NoError(t, err)
	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, ir1, ir2)
}

func TestCompilePriorityDominanceDisablesLowerPriorityLoser(t *testing.T) {
	high := mustConstraint(t, types.KindSecurity, "forbid_x", types.PriorityHigh, forbidTokenMask("x"))
	low := mustConstraint(t, types.KindSecurity, "require_x", types.PriorityLow, requireTokenMask("x"))

	set := types.NewConstraintSet()
	require.NoError(t, set.Add(high))
	require.NoError(t, set.Add(low))

	_, manifest, err := Compile(context.Background(), set, Options{})
	require.NoError(t, err)
	require.Len(t, manifest.Disabled, 1)
	assert.Equal(t, "require_x", manifest.Disabled[0].Name)
}

func TestCompileDirectCycleReturnsUnresolvedCycle(t *testing.T) {
	a := mustConstraint(t, types.KindArchitectural, "a_depends_on_b", types.PriorityMedium,
		types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{}})
	a.Consumes = []string{"b_ready"}
	a.Produces = []string{"a_ready"}

	b := mustConstraint(t, types.KindArchitectural, "b_depends_on_a", types.PriorityMedium,
		types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{}})
	b.Consumes = []string{"a_ready"}
	b.Produces = []string{"b_ready"}

	set := types.NewConstraintSet()
	require.NoError(t, set.Add(a))
	require.NoError(t, set.Add(b))

	// The default policy does not break dependency cycles: the
	// circular-dependency conflict survives resolution and Compile fails
	// with UnresolvedCycle naming both members.
	_, _, err := Compile(context.Background(), set, Options{})
	require.Error(t, err)
	var cycleErr *types.UnresolvedCycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a_depends_on_b", "b_depends_on_a"}, cycleErr.Names)
}

func TestCompileEmptySetProducesEmptyIR(t *testing.T) {
	set := types.NewConstraintSet()
	ir, manifest, err := Compile(context.Background(), set, Options{})
	require.NoError(t, err)
	assert.True(t, ir.Empty())
	assert.Empty(t, manifest.Entries)
}

func TestCompilePreferStructuralEmitsNoGrammarRuleButWarns(t *testing.T) {
	c := mustConstraint(t, types.KindSyntactic, "prefer_early_return", types.PriorityLow,
		types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{
			NodeKind: "if_statement", Action: types.ActionPrefer,
		}})
	set := types.NewConstraintSet()
	require.NoError(t, set.Add(c))

	ir, manifest, err := Compile(context.Background(), set, Options{})
	require.NoError(t, err)
	assert.Nil(t, ir.Grammar)
	assert.NotEmpty(t, manifest.Warnings)
}
