package ir

import (
	"encoding/json"
	"fmt"
	"strings"

	"constraintcore/internal/types"
)

// Parse is the inverse of Serialize: it reads each populated wire-format
// body of a back into a ConstraintIR and Manifest. Serialize(Parse(a))
// reproduces a byte for byte, which is what makes persisted artifacts safe
// to reload, rehash, and re-serve from the cache.
func Parse(a Artifact) (types.ConstraintIR, types.Manifest, error) {
	var out types.ConstraintIR

	if a.JSONSchema != nil {
		schema, err := ParseJSONSchema(a.JSONSchema)
		if err != nil {
			return types.ConstraintIR{}, types.Manifest{}, err
		}
		out.JSONSchema = schema
	}
	if a.Grammar != nil {
		grammar, err := ParseGrammar(a.Grammar)
		if err != nil {
			return types.ConstraintIR{}, types.Manifest{}, err
		}
		out.Grammar = grammar
	}
	if a.Regex != nil {
		regex, err := ParseRegex(a.Regex)
		if err != nil {
			return types.ConstraintIR{}, types.Manifest{}, err
		}
		out.Regex = regex
	}
	if a.TokenMask != nil {
		mask, err := ParseTokenMask(a.TokenMask)
		if err != nil {
			return types.ConstraintIR{}, types.Manifest{}, err
		}
		out.TokenMask = mask
	}

	manifest, err := ParseManifest(a.Manifest)
	if err != nil {
		return types.ConstraintIR{}, types.Manifest{}, err
	}
	return out, manifest, nil
}

// ParseJSONSchema reads a serialized draft-7 schema body.
func ParseJSONSchema(b []byte) (*types.JSONSchemaIR, error) {
	var root map[string]any
	if err := json.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("parsing json schema: %w", err)
	}
	return &types.JSONSchemaIR{Root: root}, nil
}

// ParseGrammar reads the flat EBNF text form, one "nonterminal ::=
// production" rule per line. The start symbol is not part of the wire
// format; it is always "root" for grammars this module emits.
func ParseGrammar(b []byte) (*types.GrammarIR, error) {
	g := &types.GrammarIR{Start: "root"}
	for i, line := range strings.Split(strings.TrimRight(string(b), "\n"), "\n") {
		if line == "" {
			continue
		}
		nonterminal, production, found := strings.Cut(line, " ::= ")
		if !found || nonterminal == "" {
			return nil, fmt.Errorf("parsing grammar: line %d is not a 'nonterminal ::= production' rule: %q", i+1, line)
		}
		g.Rules = append(g.Rules, types.GrammarRule{Nonterminal: nonterminal, Production: production})
	}
	return g, nil
}

// ParseRegex reads the two-field pattern/flags record.
func ParseRegex(b []byte) (*types.RegexIR, error) {
	var r types.RegexIR
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parsing regex record: %w", err)
	}
	if r.Pattern == "" {
		return nil, fmt.Errorf("parsing regex record: empty pattern")
	}
	return &r, nil
}

// ParseTokenMask reads the ordered list of {pattern, action} records.
func ParseTokenMask(b []byte) (*types.TokenMaskRulesIR, error) {
	var rules []types.TokenMaskRule
	if err := json.Unmarshal(b, &rules); err != nil {
		return nil, fmt.Errorf("parsing token mask rules: %w", err)
	}
	for i, r := range rules {
		if r.Pattern == "" || r.Action == "" {
			return nil, fmt.Errorf("parsing token mask rules: rule %d is missing pattern or action", i)
		}
	}
	return &types.TokenMaskRulesIR{Rules: rules}, nil
}

// ParseManifest reads the manifest document emitted alongside the IR.
func ParseManifest(b []byte) (types.Manifest, error) {
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return types.Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}
