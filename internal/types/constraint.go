// Package types defines the constraint entities, enforcement and source
// variants, and IR shapes shared by every other package in this module.
package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind is the top-level category a Constraint belongs to.
type Kind string

const (
	KindSyntactic     Kind = "syntactic"
	KindTypeSafety    Kind = "type_safety"
	KindSemantic      Kind = "semantic"
	KindArchitectural Kind = "architectural"
	KindOperational   Kind = "operational"
	KindSecurity      Kind = "security"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSyntactic, KindTypeSafety, KindSemantic, KindArchitectural, KindOperational, KindSecurity:
		return true
	}
	return false
}

// Priority orders constraints for conflict resolution and topological
// normalization.
type Priority int

const (
	PriorityOptional Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) Valid() bool {
	return p >= PriorityOptional && p <= PriorityCritical
}

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	case PriorityOptional:
		return "optional"
	}
	return "unknown"
}

// ParsePriority converts the lowercase wire form back to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "critical":
		return PriorityCritical, nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "optional":
		return PriorityOptional, nil
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// Severity is the diagnostic level attached to a Constraint.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityHint:
		return true
	}
	return false
}

// EnforcementTag identifies which payload of an Enforcement is populated.
type EnforcementTag string

const (
	EnforcementStructural EnforcementTag = "structural"
	EnforcementType       EnforcementTag = "type"
	EnforcementRegex      EnforcementTag = "regex"
	EnforcementJSONSchema EnforcementTag = "json_schema"
	EnforcementTokenMask  EnforcementTag = "token_mask"
	EnforcementSemantic   EnforcementTag = "semantic"
)

// StructuralAction is the action a Structural enforcement takes on a matched
// syntax-tree pattern.
type StructuralAction string

const (
	ActionForbid  StructuralAction = "forbid"
	ActionRequire StructuralAction = "require"
	ActionPrefer  StructuralAction = "prefer"
)

// StructuralEnforcement pairs a syntax-tree pattern with an action.
type StructuralEnforcement struct {
	NodeKind string           `json:"node_kind"`
	Pattern  string           `json:"pattern"`
	Action   StructuralAction `json:"action"`
}

// TypeEnforcement restricts or mandates a set of type names.
type TypeEnforcement struct {
	ForbiddenTypes []string `json:"forbidden_types,omitempty"`
	RequiredTypes  []string `json:"required_types,omitempty"`
}

// RegexEnforcement restricts output via a regular expression.
type RegexEnforcement struct {
	Pattern string           `json:"pattern"`
	Action  StructuralAction `json:"action"`
}

// JSONSchemaEnforcement carries a JSON-Schema-draft-7 subschema object.
type JSONSchemaEnforcement struct {
	Subschema map[string]any `json:"subschema"`
}

// TokenMaskRule disallows a token substring matching Pattern.
type TokenMaskRule struct {
	Pattern string `json:"pattern"`
	Action  string `json:"action"`
}

// TokenMaskEnforcement is an ordered list of disallowed token-substring rules.
type TokenMaskEnforcement struct {
	Rules []TokenMaskRule `json:"rules"`
}

// SemanticEnforcement is a free-form property bag; it never produces IR
// bytes directly.
type SemanticEnforcement struct {
	Properties map[string]any `json:"properties,omitempty"`
}

// Enforcement is a closed tagged union over the six enforcement kinds.
// Exactly one payload field is populated, matching Tag.
type Enforcement struct {
	Tag        EnforcementTag         `json:"tag"`
	Structural *StructuralEnforcement `json:"structural,omitempty"`
	Type       *TypeEnforcement       `json:"type,omitempty"`
	Regex      *RegexEnforcement      `json:"regex,omitempty"`
	JSONSchema *JSONSchemaEnforcement `json:"json_schema,omitempty"`
	TokenMask  *TokenMaskEnforcement  `json:"token_mask,omitempty"`
	Semantic   *SemanticEnforcement   `json:"semantic,omitempty"`
}

// legalEnforcement enumerates which EnforcementTag values a Kind accepts;
// the kind decides which enforcement shapes are legal. Every enforcement
// shape needs a home in more than one kind: a "no_panic_in_library" Regex
// rule is semantic in intent the same way "no_any_type" is a type-safety
// rule, even though both could be phrased as a bare pattern match.
// type_safety rejects Structural deliberately: a type constraint that needs
// a syntax-tree production belongs under architectural instead, which is
// where require_exhaustive_switch and similar rules live.
var legalEnforcement = map[Kind]map[EnforcementTag]bool{
	KindSyntactic: {
		EnforcementStructural: true,
		EnforcementRegex:      true,
	},
	KindTypeSafety: {
		EnforcementType:      true,
		EnforcementTokenMask: true,
		EnforcementRegex:     true,
	},
	KindSemantic: {
		EnforcementSemantic:   true,
		EnforcementJSONSchema: true,
		EnforcementRegex:      true,
		EnforcementStructural: true,
	},
	KindArchitectural: {
		EnforcementStructural: true,
		EnforcementSemantic:   true,
		EnforcementJSONSchema: true,
		EnforcementRegex:      true,
	},
	KindOperational: {
		EnforcementSemantic:   true,
		EnforcementJSONSchema: true,
		EnforcementTokenMask:  true,
		EnforcementRegex:      true,
	},
	KindSecurity: {
		EnforcementRegex:      true,
		EnforcementTokenMask:  true,
		EnforcementStructural: true,
		EnforcementSemantic:   true,
	},
}

// SourceTag identifies where a Constraint originated.
type SourceTag string

const (
	SourceStaticExtraction   SourceTag = "static_extraction"
	SourceSemanticExtraction SourceTag = "semantic_extraction"
	SourceTestMining         SourceTag = "test_mining"
	SourceTelemetry          SourceTag = "telemetry"
	SourceManualPolicy       SourceTag = "manual_policy"
	SourceDSL                SourceTag = "dsl"
	SourceDocumentation      SourceTag = "documentation"
)

func (s SourceTag) Valid() bool {
	switch s {
	case SourceStaticExtraction, SourceSemanticExtraction, SourceTestMining,
		SourceTelemetry, SourceManualPolicy, SourceDSL, SourceDocumentation:
		return true
	}
	return false
}

// Source records where a Constraint came from. Only Tag and, where
// applicable, a small set of identifying fields are populated.
type Source struct {
	Tag SourceTag `json:"tag"`
}

// Provenance is the optional audit record for a Constraint.
type Provenance struct {
	SourceFile     string  `json:"source_file,omitempty"`
	LineRangeStart int     `json:"line_range_start,omitempty"`
	LineRangeEnd   int     `json:"line_range_end,omitempty"`
	Extractor      string  `json:"extractor,omitempty"`
	Version        string  `json:"version,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	Timestamp      int64   `json:"timestamp,omitempty"`
}

// Constraint is the central entity of the type system.
type Constraint struct {
	ID          uuid.UUID   `json:"id"`
	Kind        Kind        `json:"kind"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Priority    Priority    `json:"priority"`
	Severity    Severity    `json:"severity"`
	Enforcement Enforcement `json:"enforcement"`
	Source      Source      `json:"source"`
	Provenance  *Provenance `json:"provenance,omitempty"`

	// Produces/Consumes are the name sets BRAID uses to build the
	// dependency graph. Populated by the producer
	// (extraction or DSL) or inferred by BRAID's normalize step when absent.
	Produces []string `json:"produces,omitempty"`
	Consumes []string `json:"consumes,omitempty"`

	// Disabled marks a constraint that lost conflict resolution; it is
	// retained for provenance but skipped during IR emission.
	Disabled       bool   `json:"disabled,omitempty"`
	DisabledReason string `json:"disabled_reason,omitempty"`
}

// InvalidConstraintError is returned when a Constraint violates a type
// system invariant.
type InvalidConstraintError struct {
	ConstraintName string
	SourceTag      SourceTag
	Reason         string
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %q (source=%s): %s", e.ConstraintName, e.SourceTag, e.Reason)
}

// Validate enforces the type-system invariants:
//   - kind must be one of the six closed values
//   - priority/severity must be closed values
//   - enforcement.Tag must be legal for kind
//   - exactly one enforcement payload must be populated, matching Tag
//   - a Critical constraint must have severity == error
func (c *Constraint) Validate() error {
	fail := func(reason string) error {
		return &InvalidConstraintError{ConstraintName: c.Name, SourceTag: c.Source.Tag, Reason: reason}
	}
	if !c.Kind.Valid() {
		return fail(fmt.Sprintf("unknown kind %q", c.Kind))
	}
	if !c.Priority.Valid() {
		return fail("invalid priority")
	}
	if !c.Severity.Valid() {
		return fail(fmt.Sprintf("unknown severity %q", c.Severity))
	}
	if !c.Source.Tag.Valid() {
		return fail(fmt.Sprintf("unknown source tag %q", c.Source.Tag))
	}
	if c.Name == "" {
		return fail("name must not be empty")
	}
	if legal := legalEnforcement[c.Kind]; legal == nil || !legal[c.Enforcement.Tag] {
		return fail(fmt.Sprintf("enforcement %q illegal for kind %q", c.Enforcement.Tag, c.Kind))
	}
	if err := c.validateEnforcementPayload(); err != nil {
		return fail(err.Error())
	}
	if c.Priority == PriorityCritical && c.Severity != SeverityError {
		return fail("critical constraint must have severity=error")
	}
	if c.Provenance != nil {
		if c.Provenance.Confidence < 0 || c.Provenance.Confidence > 1 {
			return fail("provenance confidence must be in [0,1]")
		}
	}
	return nil
}

func (c *Constraint) validateEnforcementPayload() error {
	e := c.Enforcement
	populated := 0
	if e.Structural != nil {
		populated++
	}
	if e.Type != nil {
		populated++
	}
	if e.Regex != nil {
		populated++
	}
	if e.JSONSchema != nil {
		populated++
	}
	if e.TokenMask != nil {
		populated++
	}
	if e.Semantic != nil {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("exactly one enforcement payload must be set, found %d", populated)
	}
	switch e.Tag {
	case EnforcementStructural:
		if e.Structural == nil {
			return fmt.Errorf("tag=structural but payload missing")
		}
	case EnforcementType:
		if e.Type == nil {
			return fmt.Errorf("tag=type but payload missing")
		}
	case EnforcementRegex:
		if e.Regex == nil {
			return fmt.Errorf("tag=regex but payload missing")
		}
	case EnforcementJSONSchema:
		if e.JSONSchema == nil {
			return fmt.Errorf("tag=json_schema but payload missing")
		}
	case EnforcementTokenMask:
		if e.TokenMask == nil {
			return fmt.Errorf("tag=token_mask but payload missing")
		}
	case EnforcementSemantic:
		if e.Semantic == nil {
			return fmt.Errorf("tag=semantic but payload missing")
		}
	default:
		return fmt.Errorf("unknown enforcement tag %q", e.Tag)
	}
	return nil
}

// NewConstraint constructs and validates a Constraint in one step.
func NewConstraint(kind Kind, name string, priority Priority, severity Severity, enforcement Enforcement, source Source) (Constraint, error) {
	c := Constraint{
		ID:          uuid.New(),
		Kind:        kind,
		Name:        name,
		Priority:    priority,
		Severity:    severity,
		Enforcement: enforcement,
		Source:      source,
	}
	if err := c.Validate(); err != nil {
		return Constraint{}, err
	}
	return c, nil
}

// dedupKey is the (name, source-tag) pair used as the stable identity for
// deduplication.
type dedupKey struct {
	name      string
	sourceTag SourceTag
}
