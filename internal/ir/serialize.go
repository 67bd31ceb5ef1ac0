// Package ir renders a compiled ConstraintIR and its Manifest into the
// external wire format: strict JSON Schema draft-7,
// flat EBNF text, a two-field regex record, an ordered TokenMaskRules list,
// and a separate manifest JSON document. Two equal IRs serialize
// byte-identically.
package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"constraintcore/internal/types"
)

// Artifact is everything Serialize produces for one compile call: the four
// possible wire-format bodies (only the populated ones are non-nil) and the
// manifest document.
type Artifact struct {
	JSONSchema []byte // draft-7 JSON, 2-space indent, sorted keys
	Grammar    []byte // plain-text EBNF, one rule per line
	Regex      []byte // JSON two-field record
	TokenMask  []byte // JSON ordered list of {pattern, action}
	Manifest   []byte // JSON manifest document
}

// Serialize renders ir/manifest into the external wire formats.
func Serialize(constraintIR types.ConstraintIR, manifest types.Manifest) (Artifact, error) {
	var out Artifact
	var err error

	if constraintIR.JSONSchema != nil {
		out.JSONSchema, err = marshalIndent(constraintIR.JSONSchema.Root)
		if err != nil {
			return Artifact{}, fmt.Errorf("serializing json schema: %w", err)
		}
	}
	if constraintIR.Grammar != nil {
		out.Grammar = []byte(renderGrammar(*constraintIR.Grammar))
	}
	if constraintIR.Regex != nil {
		out.Regex, err = marshalIndent(constraintIR.Regex)
		if err != nil {
			return Artifact{}, fmt.Errorf("serializing regex: %w", err)
		}
	}
	if constraintIR.TokenMask != nil {
		out.TokenMask, err = marshalIndent(constraintIR.TokenMask.Rules)
		if err != nil {
			return Artifact{}, fmt.Errorf("serializing token mask rules: %w", err)
		}
	}
	out.Manifest, err = marshalIndent(manifest)
	if err != nil {
		return Artifact{}, fmt.Errorf("serializing manifest: %w", err)
	}
	return out, nil
}

// renderGrammar emits one "nonterminal ::= production" line per rule,
// ordered first by nonterminal then by production, so two equal GrammarIRs
// always render identically regardless of slice construction order.
func renderGrammar(g types.GrammarIR) string {
	rules := make([]types.GrammarRule, len(g.Rules))
	copy(rules, g.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Nonterminal != rules[j].Nonterminal {
			return rules[i].Nonterminal < rules[j].Nonterminal
		}
		return rules[i].Production < rules[j].Production
	})
	var sb strings.Builder
	for _, r := range rules {
		sb.WriteString(r.Nonterminal)
		sb.WriteString(" ::= ")
		sb.WriteString(r.Production)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// marshalIndent produces UTF-8, no-BOM, sorted-key, 2-space-indent JSON.
// encoding/json already sorts map keys and struct
// fields marshal in declared order, which is already a stable order for
// every struct defined in internal/types; object-shaped values (the JSON
// Schema root, a map[string]any) get their keys sorted by the stdlib.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
