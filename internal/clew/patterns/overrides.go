package patterns

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// overrideFile is the YAML shape of a pattern_library_overrides file
// : a list of declarative rule definitions merged into
// the built-in library at engine initialization, before the anchor index
// is built.
type overrideFile struct {
	Rules []overrideRule `yaml:"rules"`
}

type overrideRule struct {
	Name        string   `yaml:"name"`
	Languages   []string `yaml:"languages"`
	Kind        string   `yaml:"kind"`
	Priority    string   `yaml:"priority"`
	Severity    string   `yaml:"severity"`
	Description string   `yaml:"description,omitempty"`
	// Anchor is the matcher's literal anchor; its first byte feeds the
	// byte index. Empty means the rule is checked at every position.
	Anchor      string              `yaml:"anchor,omitempty"`
	Match       overrideMatch       `yaml:"match"`
	Confidence  float64             `yaml:"confidence"`
	Enforcement overrideEnforcement `yaml:"enforcement"`
	Produces    []string            `yaml:"produces,omitempty"`
	Consumes    []string            `yaml:"consumes,omitempty"`
}

// overrideMatch is the declarative matcher: a substring containment check,
// a node-kind equality check, or both (both must hold when both are set).
type overrideMatch struct {
	Contains string `yaml:"contains,omitempty"`
	NodeKind string `yaml:"node_kind,omitempty"`
}

// overrideEnforcement mirrors types.Enforcement with yaml tags, since the
// canonical struct carries json tags only.
type overrideEnforcement struct {
	Tag        string                  `yaml:"tag"`
	Structural *overrideStructural     `yaml:"structural,omitempty"`
	Type       *overrideType           `yaml:"type,omitempty"`
	Regex      *overrideRegex          `yaml:"regex,omitempty"`
	JSONSchema map[string]any          `yaml:"json_schema,omitempty"`
	TokenMask  []overrideTokenMaskRule `yaml:"token_mask,omitempty"`
	Semantic   map[string]any          `yaml:"semantic,omitempty"`
}

type overrideStructural struct {
	NodeKind string `yaml:"node_kind"`
	Pattern  string `yaml:"pattern,omitempty"`
	Action   string `yaml:"action"`
}

type overrideType struct {
	Forbidden []string `yaml:"forbidden,omitempty"`
	Required  []string `yaml:"required,omitempty"`
}

type overrideRegex struct {
	Pattern string `yaml:"pattern"`
	Action  string `yaml:"action"`
}

type overrideTokenMaskRule struct {
	Pattern string `yaml:"pattern"`
	Action  string `yaml:"action"`
}

// LoadOverrides reads a pattern_library_overrides YAML file and returns the
// additional rules it defines, keyed by language tag. A rule listing no
// languages applies to every language, like the built-in security rules.
func LoadOverrides(path string) (map[string][]clew.Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern overrides %s: %w", path, err)
	}
	var file overrideFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing pattern overrides %s: %w", path, err)
	}

	byLanguage := make(map[string][]clew.Rule)
	for i, or := range file.Rules {
		r, err := or.toRule()
		if err != nil {
			return nil, fmt.Errorf("pattern overrides %s: rule %d (%q): %w", path, i, or.Name, err)
		}
		languages := or.Languages
		if len(languages) == 0 {
			for _, l := range types.AllLanguages {
				languages = append(languages, string(l))
			}
		}
		for _, lang := range languages {
			if !types.Language(lang).Valid() {
				return nil, fmt.Errorf("pattern overrides %s: rule %q: unknown language %q", path, or.Name, lang)
			}
			byLanguage[lang] = append(byLanguage[lang], r)
		}
	}
	return byLanguage, nil
}

func (or overrideRule) toRule() (clew.Rule, error) {
	if or.Name == "" {
		return clew.Rule{}, fmt.Errorf("name is required")
	}
	if or.Match.Contains == "" && or.Match.NodeKind == "" {
		return clew.Rule{}, fmt.Errorf("match requires contains and/or node_kind")
	}
	kind := types.Kind(strings.ToLower(or.Kind))
	if !kind.Valid() {
		return clew.Rule{}, fmt.Errorf("unknown kind %q", or.Kind)
	}
	priority, err := types.ParsePriority(strings.ToLower(or.Priority))
	if err != nil {
		return clew.Rule{}, err
	}
	severity := types.Severity(strings.ToLower(or.Severity))
	if !severity.Valid() {
		return clew.Rule{}, fmt.Errorf("unknown severity %q", or.Severity)
	}
	if or.Confidence < 0 || or.Confidence > 1 {
		return clew.Rule{}, fmt.Errorf("confidence must be in [0,1], got %f", or.Confidence)
	}

	enforcement, err := or.Enforcement.toEnforcement()
	if err != nil {
		return clew.Rule{}, err
	}

	// Probe once so an illegal kind/enforcement pairing fails at load time
	// rather than silently dropping every match at extraction time.
	if _, err := types.NewConstraint(kind, or.Name, priority, severity, enforcement,
		types.Source{Tag: types.SourceManualPolicy}); err != nil {
		return clew.Rule{}, err
	}

	match := or.Match
	predicate := func(in clew.MatchInput) bool {
		if match.NodeKind != "" && in.NodeKind != match.NodeKind {
			return false
		}
		if match.Contains != "" &&
			!strings.Contains(in.Token, match.Contains) && !strings.Contains(in.NodeText, match.Contains) {
			return false
		}
		return true
	}

	return clew.Rule{
		Name:           or.Name,
		Anchor:         anchorOf(or.Anchor),
		Predicate:      predicate,
		BaseConfidence: or.Confidence,
		Template: clew.Template{
			Kind:            kind,
			Name:            or.Name,
			Description:     or.Description,
			Priority:        priority,
			DefaultSeverity: severity,
			Enforcement:     func(clew.MatchInput) types.Enforcement { return enforcement },
			Produces:        or.Produces,
			Consumes:        or.Consumes,
		},
	}, nil
}

func (oe overrideEnforcement) toEnforcement() (types.Enforcement, error) {
	switch types.EnforcementTag(oe.Tag) {
	case types.EnforcementStructural:
		if oe.Structural == nil {
			return types.Enforcement{}, fmt.Errorf("tag=structural requires a structural payload")
		}
		return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{
			NodeKind: oe.Structural.NodeKind,
			Pattern:  oe.Structural.Pattern,
			Action:   types.StructuralAction(oe.Structural.Action),
		}}, nil
	case types.EnforcementType:
		if oe.Type == nil {
			return types.Enforcement{}, fmt.Errorf("tag=type requires a type payload")
		}
		return types.Enforcement{Tag: types.EnforcementType, Type: &types.TypeEnforcement{
			ForbiddenTypes: oe.Type.Forbidden,
			RequiredTypes:  oe.Type.Required,
		}}, nil
	case types.EnforcementRegex:
		if oe.Regex == nil {
			return types.Enforcement{}, fmt.Errorf("tag=regex requires a regex payload")
		}
		return types.Enforcement{Tag: types.EnforcementRegex, Regex: &types.RegexEnforcement{
			Pattern: oe.Regex.Pattern,
			Action:  types.StructuralAction(oe.Regex.Action),
		}}, nil
	case types.EnforcementJSONSchema:
		if oe.JSONSchema == nil {
			return types.Enforcement{}, fmt.Errorf("tag=json_schema requires a json_schema payload")
		}
		return types.Enforcement{Tag: types.EnforcementJSONSchema, JSONSchema: &types.JSONSchemaEnforcement{
			Subschema: oe.JSONSchema,
		}}, nil
	case types.EnforcementTokenMask:
		if len(oe.TokenMask) == 0 {
			return types.Enforcement{}, fmt.Errorf("tag=token_mask requires at least one rule")
		}
		rules := make([]types.TokenMaskRule, len(oe.TokenMask))
		for i, r := range oe.TokenMask {
			rules[i] = types.TokenMaskRule{Pattern: r.Pattern, Action: r.Action}
		}
		return types.Enforcement{Tag: types.EnforcementTokenMask, TokenMask: &types.TokenMaskEnforcement{Rules: rules}}, nil
	case types.EnforcementSemantic:
		return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{
			Properties: oe.Semantic,
		}}, nil
	}
	return types.Enforcement{}, fmt.Errorf("unknown enforcement tag %q", oe.Tag)
}
