package types

import "github.com/google/uuid"

// IRKind tags the four interchangeable IR shapes.
type IRKind string

const (
	IRKindJSONSchema    IRKind = "json_schema"
	IRKindGrammar       IRKind = "grammar"
	IRKindRegex         IRKind = "regex"
	IRKindTokenMaskRule IRKind = "token_mask_rules"
)

// GrammarRule is one EBNF production.
type GrammarRule struct {
	Nonterminal string `json:"nonterminal"`
	Production  string `json:"production"`
}

// GrammarIR is the Grammar artifact shape.
type GrammarIR struct {
	Rules []GrammarRule `json:"rules"`
	Start string        `json:"start"`
}

// RegexIR is the Regex artifact shape.
type RegexIR struct {
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

// TokenMaskRulesIR is the TokenMaskRules artifact shape, order preserved.
type TokenMaskRulesIR struct {
	Rules []TokenMaskRule `json:"rules"`
}

// JSONSchemaIR is the JSONSchema artifact shape: a draft-7 root object.
type JSONSchemaIR struct {
	Root map[string]any `json:"root"`
}

// ConstraintIR is the tagged-union output of BRAID. More than one
// field may be populated in a single compile, since multiple enforcement
// forms can coexist.
type ConstraintIR struct {
	JSONSchema *JSONSchemaIR     `json:"json_schema,omitempty"`
	Grammar    *GrammarIR        `json:"grammar,omitempty"`
	Regex      *RegexIR          `json:"regex,omitempty"`
	TokenMask  *TokenMaskRulesIR `json:"token_mask_rules,omitempty"`
}

// Empty reports whether no IR fragment was produced at all (e.g. a
// constraint set consisting solely of Semantic enforcement).
func (ir ConstraintIR) Empty() bool {
	return ir.JSONSchema == nil && ir.Grammar == nil && ir.Regex == nil && ir.TokenMask == nil
}

// ManifestEntry maps one IR fragment back to the constraint IDs that
// produced it.
type ManifestEntry struct {
	IRKind        IRKind      `json:"ir_kind"`
	FragmentRef   string      `json:"fragment_ref"`
	ConstraintIDs []uuid.UUID `json:"constraint_ids"`
}

// Manifest is the full constraint-ID -> IR-fragment mapping for a compile
// call, plus bookkeeping about constraints that never reached IR (disabled
// by conflict resolution, or Semantic-only).
type Manifest struct {
	Entries  []ManifestEntry      `json:"entries"`
	Disabled []DisabledConstraint `json:"disabled,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// DisabledConstraint records a constraint that lost conflict resolution.
type DisabledConstraint struct {
	ConstraintID uuid.UUID `json:"constraint_id"`
	Name         string    `json:"name"`
	Reason       string    `json:"reason"`
}
