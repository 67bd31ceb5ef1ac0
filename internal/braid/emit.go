package braid

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"constraintcore/internal/types"
)

// emitState accumulates IR fragments while walking constraints in
// topological order.
type emitState struct {
	grammarRules   []types.GrammarRule
	grammarByID    map[string][]uuid.UUID // nonterminal -> constraint IDs
	regexPatterns  []string
	regexIDs       []uuid.UUID
	tokenMaskRules []types.TokenMaskRule
	tokenMaskIDs   []uuid.UUID
	schemaAllOf    []map[string]any
	schemaRequired map[string]bool
	schemaIDs      []uuid.UUID
	warnings       []string
}

func newEmitState() *emitState {
	return &emitState{
		grammarByID:    make(map[string][]uuid.UUID),
		schemaRequired: make(map[string]bool),
	}
}

// emit is step 6: walk constraints in topological order and
// synthesize IR fragments per enforcement kind.
func emit(ordered []types.Constraint, topo []int, disabled map[int]string, replace map[int]types.Constraint) (types.ConstraintIR, types.Manifest, error) {
	st := newEmitState()

	for _, idx := range topo {
		c := ordered[idx]
		if r, ok := replace[idx]; ok {
			c = r
		}
		if err := emitOne(st, c); err != nil {
			return types.ConstraintIR{}, types.Manifest{}, err
		}
	}

	ir := types.ConstraintIR{}
	var entries []types.ManifestEntry

	if len(st.grammarRules) > 0 {
		ir.Grammar = &types.GrammarIR{Rules: st.grammarRules, Start: "root"}
		nonterminals := make([]string, 0, len(st.grammarByID))
		for nonterminal := range st.grammarByID {
			nonterminals = append(nonterminals, nonterminal)
		}
		sort.Strings(nonterminals)
		for _, nonterminal := range nonterminals {
			entries = append(entries, types.ManifestEntry{
				IRKind:        types.IRKindGrammar,
				FragmentRef:   nonterminal,
				ConstraintIDs: st.grammarByID[nonterminal],
			})
		}
	}

	if len(st.regexPatterns) > 0 {
		combined := "(?i)(?:" + strings.Join(st.regexPatterns, ")|(?:") + ")"
		ir.Regex = &types.RegexIR{Pattern: combined, Flags: "i"}
		entries = append(entries, types.ManifestEntry{
			IRKind:        types.IRKindRegex,
			FragmentRef:   "combined",
			ConstraintIDs: st.regexIDs,
		})
	}

	if len(st.tokenMaskRules) > 0 {
		ir.TokenMask = &types.TokenMaskRulesIR{Rules: st.tokenMaskRules}
		entries = append(entries, types.ManifestEntry{
			IRKind:        types.IRKindTokenMaskRule,
			FragmentRef:   "token_mask_rules",
			ConstraintIDs: st.tokenMaskIDs,
		})
	}

	if len(st.schemaAllOf) > 0 || len(st.schemaRequired) > 0 {
		root := map[string]any{}
		if len(st.schemaAllOf) > 0 {
			root["allOf"] = st.schemaAllOf
		}
		if len(st.schemaRequired) > 0 {
			required := make([]string, 0, len(st.schemaRequired))
			for name := range st.schemaRequired {
				required = append(required, name)
			}
			sort.Strings(required)
			root["required"] = required
		}
		ir.JSONSchema = &types.JSONSchemaIR{Root: root}
		entries = append(entries, types.ManifestEntry{
			IRKind:        types.IRKindJSONSchema,
			FragmentRef:   "root",
			ConstraintIDs: st.schemaIDs,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IRKind != entries[j].IRKind {
			return entries[i].IRKind < entries[j].IRKind
		}
		return entries[i].FragmentRef < entries[j].FragmentRef
	})

	manifest := types.Manifest{Entries: entries, Warnings: st.warnings}
	for idx, reason := range disabled {
		manifest.Disabled = append(manifest.Disabled, types.DisabledConstraint{
			ConstraintID: ordered[idx].ID,
			Name:         ordered[idx].Name,
			Reason:       reason,
		})
	}
	sort.Slice(manifest.Disabled, func(i, j int) bool {
		return manifest.Disabled[i].Name < manifest.Disabled[j].Name
	})

	return ir, manifest, nil
}

func emitOne(st *emitState, c types.Constraint) error {
	id := c.ID
	e := c.Enforcement
	switch e.Tag {
	case types.EnforcementStructural:
		nonterminal := e.Structural.NodeKind
		var production string
		switch e.Structural.Action {
		case types.ActionForbid:
			production = negativeLookahead(e.Structural.Pattern, nonterminal)
		case types.ActionRequire:
			production = mandatoryChild(e.Structural.Pattern, nonterminal)
		case types.ActionPrefer:
			// Prefer is advisory only; a soft structural hint is not
			// token-enforceable, so it contributes a warning instead of a
			// grammar production.
			st.warnings = append(st.warnings, fmt.Sprintf("constraint %q (prefer) is advisory only and produced no grammar rule", c.Name))
			return nil
		default:
			return &types.IRSynthesisFailedError{ConstraintID: c.ID, Name: c.Name, Ref: types.RefOf(c), Reason: "unknown structural action"}
		}
		st.grammarRules = append(st.grammarRules, types.GrammarRule{Nonterminal: nonterminal, Production: production})
		st.grammarByID[nonterminal] = append(st.grammarByID[nonterminal], id)

	case types.EnforcementType:
		for _, t := range e.Type.ForbiddenTypes {
			st.tokenMaskRules = append(st.tokenMaskRules, types.TokenMaskRule{Pattern: "\\b" + t + "\\b", Action: "forbid"})
			st.tokenMaskIDs = append(st.tokenMaskIDs, id)
			st.schemaAllOf = append(st.schemaAllOf, map[string]any{
				"properties": map[string]any{"type": map[string]any{"not": map[string]any{"const": t}}},
			})
			st.schemaIDs = append(st.schemaIDs, id)
		}
		for _, t := range e.Type.RequiredTypes {
			st.schemaRequired[t] = true
			st.schemaIDs = append(st.schemaIDs, id)
		}

	case types.EnforcementRegex:
		if e.Regex.Action == types.ActionPrefer {
			// A soft preference has no place in a combined forbid/require
			// pattern; it surfaces as a warning like structural Prefer does.
			st.warnings = append(st.warnings, fmt.Sprintf("constraint %q (prefer) is advisory only and produced no regex fragment", c.Name))
			return nil
		}
		if _, err := regexp.Compile(e.Regex.Pattern); err != nil {
			return &types.IRSynthesisFailedError{ConstraintID: c.ID, Name: c.Name, Ref: types.RefOf(c), Reason: "regex does not compile: " + err.Error()}
		}
		st.regexPatterns = append(st.regexPatterns, e.Regex.Pattern)
		st.regexIDs = append(st.regexIDs, id)

	case types.EnforcementJSONSchema:
		st.schemaAllOf = append(st.schemaAllOf, e.JSONSchema.Subschema)
		st.schemaIDs = append(st.schemaIDs, id)
		if required, ok := e.JSONSchema.Subschema["required"].([]any); ok {
			for _, r := range required {
				if name, ok := r.(string); ok {
					st.schemaRequired[name] = true
				}
			}
		}

	case types.EnforcementTokenMask:
		for _, rule := range e.TokenMask.Rules {
			st.tokenMaskRules = append(st.tokenMaskRules, rule)
			st.tokenMaskIDs = append(st.tokenMaskIDs, id)
		}

	case types.EnforcementSemantic:
		if c.Severity == types.SeverityError {
			st.warnings = append(st.warnings, fmt.Sprintf(
				"constraint %q is Semantic (advisory-only) but carries severity=error; it cannot be enforced at token level", c.Name))
		}

	default:
		return &types.IRSynthesisFailedError{ConstraintID: c.ID, Name: c.Name, Ref: types.RefOf(c), Reason: fmt.Sprintf("unknown enforcement tag %q", e.Tag)}
	}
	return nil
}

func negativeLookahead(pattern, nodeKind string) string {
	if pattern == "" {
		pattern = nodeKind
	}
	return fmt.Sprintf("!( %s )", pattern)
}

func mandatoryChild(pattern, nodeKind string) string {
	if pattern == "" {
		return nodeKind
	}
	return pattern
}
