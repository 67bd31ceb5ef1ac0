package constraintcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraintcore/internal/config"
	"constraintcore/internal/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(config.Default(), nil)
	require.NoError(t, err)
	return e
}

// TestExtractSimpleTypeScriptTypeConstraint: a bare "any" parameter type should surface a type_safety constraint
// named no_any_type with a Type enforcement forbidding "any", and the
// compiled IR should carry both a JSON Schema fragment and a TokenMaskRule
// over that forbidden name.
func TestExtractSimpleTypeScriptTypeConstraint(t *testing.T) {
	e := newTestEngine(t)
	source := []byte("function f(x: any) { return x; }")

	set, err := e.Extract(context.Background(), source, types.LangTypeScript)
	require.NoError(t, err)

	var found *types.Constraint
	for i, c := range set.Items() {
		if c.Name == "no_any_type" {
			found = &set.Items()[i]
		}
	}
	require.NotNil(t, found, "expected a no_any_type constraint")
	assert.Equal(t, types.KindTypeSafety, found.Kind)
	assert.Equal(t, types.SeverityError, found.Severity)
	assert.Equal(t, types.EnforcementType, found.Enforcement.Tag)
	assert.Contains(t, found.Enforcement.Type.ForbiddenTypes, "any")

	ir, manifest, err := e.Compile(context.Background(), set)
	require.NoError(t, err)
	require.NotNil(t, ir.JSONSchema)
	require.NotNil(t, ir.TokenMask)
	assert.NotEmpty(t, ir.TokenMask.Rules)
	assert.NotEmpty(t, manifest.Entries)
}

// TestExtractPythonSecurityTokenMask: a hardcoded password literal should surface a security constraint named
// no_hardcoded_credential, compiling to a TokenMaskRules entry matching
// `password\s*=\s*"`.
func TestExtractPythonSecurityTokenMask(t *testing.T) {
	e := newTestEngine(t)
	source := []byte(`password = "secret123"`)

	set, err := e.Extract(context.Background(), source, types.LangPython)
	require.NoError(t, err)

	var found *types.Constraint
	for i, c := range set.Items() {
		if c.Name == "no_hardcoded_credential" {
			found = &set.Items()[i]
		}
	}
	require.NotNil(t, found, "expected a no_hardcoded_credential constraint")
	assert.Equal(t, types.KindSecurity, found.Kind)

	ir, _, err := e.Compile(context.Background(), set)
	require.NoError(t, err)
	require.NotNil(t, ir.TokenMask)

	var sawPattern bool
	for _, rule := range ir.TokenMask.Rules {
		if rule.Pattern == `password\s*=\s*"` && rule.Action == "forbid" {
			sawPattern = true
		}
	}
	assert.True(t, sawPattern, "expected the password= TokenMaskRule in compiled IR, got %+v", ir.TokenMask.Rules)
}

// TestExtractEmptySourceReturnsEmptySet: empty source is not an error.
func TestExtractEmptySourceReturnsEmptySet(t *testing.T) {
	e := newTestEngine(t)
	set, err := e.Extract(context.Background(), []byte(""), types.LangGo)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

// TestExtractUnsupportedLanguageFails covers the UnsupportedLanguage
// failure mode.
func TestExtractUnsupportedLanguageFails(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Extract(context.Background(), []byte("x = 1"), types.Language("cobol"))
	require.Error(t, err)
	var unsupported *types.UnsupportedLanguageError
	assert.ErrorAs(t, err, &unsupported)
}

// TestExtractIsIdempotent: extracting the same
// source twice yields equal constraint sets, including provenance line
// ranges.
func TestExtractIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	source := []byte("password = \"hunter2\"\nx: any = None\n")

	s1, err := e.Extract(context.Background(), source, types.LangPython)
	require.NoError(t, err)
	s2, err := e.Extract(context.Background(), source, types.LangPython)
	require.NoError(t, err)

	require.Equal(t, s1.Len(), s2.Len())
	for i := range s1.Items() {
		assert.Equal(t, s1.Items()[i].Name, s2.Items()[i].Name)
		assert.Equal(t, s1.Items()[i].Provenance.LineRangeStart, s2.Items()[i].Provenance.LineRangeStart)
		assert.Equal(t, s1.Items()[i].Provenance.LineRangeEnd, s2.Items()[i].Provenance.LineRangeEnd)
	}
}

// TestConfidenceFloorFiltersLowConfidenceMatches: no constraint below the
// configured floor survives extraction.
func TestConfidenceFloorFiltersLowConfidenceMatches(t *testing.T) {
	cfg := config.Default()
	cfg.ConfidenceFloor = 0.99
	e, err := New(cfg, nil)
	require.NoError(t, err)

	set, err := e.Extract(context.Background(), []byte(`password = "hunter2"`), types.LangPython)
	require.NoError(t, err)
	for _, c := range set.Items() {
		if c.Provenance != nil {
			assert.GreaterOrEqual(t, c.Provenance.Confidence, 0.99)
		}
	}
}

// TestCompileThenSerializeRoundTrips exercises the full extract -> compile
// -> serialize pipeline end to end.
func TestCompileThenSerializeRoundTrips(t *testing.T) {
	e := newTestEngine(t)
	set, err := e.Extract(context.Background(), []byte(`eval("x")`), types.LangJavaScript)
	require.NoError(t, err)
	require.Greater(t, set.Len(), 0)

	ir, manifest, err := e.Compile(context.Background(), set)
	require.NoError(t, err)

	artifact, err := Serialize(ir, manifest)
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Manifest)
}
