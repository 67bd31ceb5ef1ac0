package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraintcore/internal/types"
)

func TestParseGrammarRoundTrip(t *testing.T) {
	in := types.ConstraintIR{
		Grammar: &types.GrammarIR{
			Start: "root",
			Rules: []types.GrammarRule{
				{Nonterminal: "call_expression", Production: "!( eval )"},
				{Nonterminal: "with_statement", Production: "!( with )"},
			},
		},
	}
	a1, err := Serialize(in, types.Manifest{})
	require.NoError(t, err)

	parsed, _, err := Parse(a1)
	require.NoError(t, err)
	require.NotNil(t, parsed.Grammar)
	assert.Equal(t, in.Grammar.Rules, parsed.Grammar.Rules)

	a2, err := Serialize(parsed, types.Manifest{})
	require.NoError(t, err)
	assert.Equal(t, a1.Grammar, a2.Grammar, "serialize -> parse -> serialize is byte-stable")
}

func TestParseFullArtifactRoundTripsByteIdentically(t *testing.T) {
	in := types.ConstraintIR{
		JSONSchema: &types.JSONSchemaIR{Root: map[string]any{
			"allOf": []any{map[string]any{"properties": map[string]any{"type": map[string]any{"not": map[string]any{"const": "any"}}}}},
		}},
		Regex:     &types.RegexIR{Pattern: `(?i)(?:eval\()`, Flags: "i"},
		TokenMask: &types.TokenMaskRulesIR{Rules: []types.TokenMaskRule{{Pattern: `\bany\b`, Action: "forbid"}}},
	}
	manifest := types.Manifest{Warnings: []string{"advisory only"}}

	a1, err := Serialize(in, manifest)
	require.NoError(t, err)

	parsedIR, parsedManifest, err := Parse(a1)
	require.NoError(t, err)

	a2, err := Serialize(parsedIR, parsedManifest)
	require.NoError(t, err)

	assert.Equal(t, a1.JSONSchema, a2.JSONSchema)
	assert.Equal(t, a1.Regex, a2.Regex)
	assert.Equal(t, a1.TokenMask, a2.TokenMask)
	assert.Equal(t, a1.Manifest, a2.Manifest)
}

func TestParseGrammarRejectsMalformedLine(t *testing.T) {
	_, err := ParseGrammar([]byte("this line has no production separator\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseRegexRejectsEmptyPattern(t *testing.T) {
	_, err := ParseRegex([]byte(`{"pattern": "", "flags": "i"}`))
	require.Error(t, err)
}

func TestParseTokenMaskRejectsIncompleteRule(t *testing.T) {
	_, err := ParseTokenMask([]byte(`[{"pattern": "x", "action": ""}]`))
	require.Error(t, err)
}

func TestParseEmptyGrammarBodyYieldsNoRules(t *testing.T) {
	g, err := ParseGrammar([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, g.Rules)
}
