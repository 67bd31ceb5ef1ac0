package clew

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraintcore/internal/semanticclient"
	"constraintcore/internal/types"
)

// testRule builds a minimal anchored token-containment rule for Extract
// tests, bypassing the built-in library (which is registered by the root
// package, not here).
func testRule(name, literal string, confidence float64) Rule {
	return Rule{
		Name:   name,
		Anchor: literal[0],
		Predicate: func(in MatchInput) bool {
			return strings.Contains(in.Token, literal) || strings.Contains(in.NodeText, literal)
		},
		BaseConfidence: confidence,
		Template: Template{
			Kind:            types.KindSecurity,
			Name:            name,
			Priority:        types.PriorityHigh,
			DefaultSeverity: types.SeverityError,
			Enforcement: func(MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementTokenMask, TokenMask: &types.TokenMaskEnforcement{
					Rules: []types.TokenMaskRule{{Pattern: literal, Action: "forbid"}},
				}}
			},
		},
	}
}

func TestExtractAnchoredRuleFiresMidLine(t *testing.T) {
	// The anchor byte ('e' of "eval(") does not begin the line; the index
	// must still surface the rule because the byte occurs within the text.
	set, err := Extract(context.Background(), []byte(`result = eval("2+2")`), types.LangPython, Options{
		ExtraRules: []Rule{testRule("no_eval", "eval(", 0.9)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "no_eval", set.Items()[0].Name)
}

func TestExtractGrammarlessLanguageIsPartial(t *testing.T) {
	set, err := Extract(context.Background(), []byte("const x = eval_thing();"), types.LangZig, Options{
		ExtraRules: []Rule{testRule("no_eval_thing", "eval_thing", 0.9)},
	})
	require.NoError(t, err)
	assert.True(t, set.Partial, "no tree-sitter grammar for zig: scanner-only extraction is partial")
	assert.Equal(t, 1, set.Len())
}

func TestExtractEmptySourceYieldsEmptySetNoError(t *testing.T) {
	set, err := Extract(context.Background(), nil, types.LangGo, Options{
		ExtraRules: []Rule{testRule("no_eval", "eval(", 0.9)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestExtractInvalidLanguageFails(t *testing.T) {
	_, err := Extract(context.Background(), []byte("x"), types.Language("fortran"), Options{})
	require.Error(t, err)
	var unsupported *types.UnsupportedLanguageError
	assert.ErrorAs(t, err, &unsupported)
}

func TestExtractMergesDuplicateEmissionsIntoSpan(t *testing.T) {
	source := []byte("a = eval(\"x\")\nb = 1\nc = eval(\"y\")\n")
	set, err := Extract(context.Background(), source, types.LangZig, Options{
		ExtraRules: []Rule{testRule("no_eval", "eval(", 0.9)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len(), "two emissions with the same (name, source-tag) collapse into one")

	p := set.Items()[0].Provenance
	require.NotNil(t, p)
	assert.Equal(t, 1, p.LineRangeStart)
	assert.Equal(t, 3, p.LineRangeEnd, "provenance line ranges merge into a span")
}

func TestExtractConfidenceFloorDropsWeakMatches(t *testing.T) {
	set, err := Extract(context.Background(), []byte(`x = eval(2)`), types.LangZig, Options{
		ConfidenceFloor: 0.3,
		ExtraRules: []Rule{
			testRule("strong", "eval(", 0.9),
			testRule("weak", "x =", 0.1),
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "strong", set.Items()[0].Name)
}

func TestExtractCommentMatchReducesConfidence(t *testing.T) {
	// Base 0.5, comment factor 0.4 -> 0.2, below the 0.3 floor.
	source := []byte("// eval( is forbidden here\n")
	set, err := Extract(context.Background(), source, types.LangZig, Options{
		ConfidenceFloor: 0.3,
		ExtraRules:      []Rule{testRule("no_eval", "eval(", 0.5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestExtractAppendsExternalSemanticCandidates(t *testing.T) {
	candidate, err := types.NewConstraint(types.KindSemantic, "no_busy_wait", types.PriorityMedium, types.SeverityWarning,
		types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_busy_wait"}}},
		types.Source{Tag: types.SourceSemanticExtraction})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"constraints": []types.Constraint{candidate},
			"confidence":  0.8,
		}))
	}))
	defer srv.Close()

	set, err := Extract(context.Background(), []byte("for {}"), types.LangGo, Options{
		SemanticClient: semanticclient.New(srv.URL, 0),
	})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "no_busy_wait", set.Items()[0].Name)
	assert.Equal(t, types.SourceSemanticExtraction, set.Items()[0].Source.Tag)
	assert.False(t, set.ExternalSkipped)
}

func TestExtractExternalSemanticFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	set, err := Extract(context.Background(), []byte(`x = eval("2")`), types.LangZig, Options{
		SemanticClient: semanticclient.New(srv.URL, 0),
		ExtraRules:     []Rule{testRule("no_eval", "eval(", 0.9)},
	})
	require.NoError(t, err, "external service failure degrades to local-only, never fails extraction")
	assert.True(t, set.ExternalSkipped)
	assert.Equal(t, 1, set.Len(), "the local result is returned alone")
}

func TestExtractUnanchoredRuleChecksEveryPosition(t *testing.T) {
	unanchored := testRule("flag_everything", "=", 0.9)
	unanchored.Anchor = 0

	set, err := Extract(context.Background(), []byte("a = 1"), types.LangZig, Options{
		ExtraRules: []Rule{unanchored},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}
