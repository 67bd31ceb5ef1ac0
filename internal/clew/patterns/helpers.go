package patterns

import (
	"strings"

	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// containsToken builds a Predicate that matches when MatchInput.Token or
// NodeText contains literal. Most rules in this library are this shape: a
// substring/keyword check over either the scanned token or the syntax-tree
// node text, so both the grammar path and the scanner-fallback path can
// satisfy the same rule.
func containsToken(literal string) func(clew.MatchInput) bool {
	return func(in clew.MatchInput) bool {
		return strings.Contains(in.Token, literal) || strings.Contains(in.NodeText, literal)
	}
}

func nodeKindIs(kind string) func(clew.MatchInput) bool {
	return func(in clew.MatchInput) bool {
		return in.NodeKind == kind
	}
}

func anchorOf(literal string) byte {
	if literal == "" {
		return 0
	}
	return literal[0]
}

func forbidType(typeName string) func(clew.MatchInput) types.Enforcement {
	return func(clew.MatchInput) types.Enforcement {
		return types.Enforcement{
			Tag:  types.EnforcementType,
			Type: &types.TypeEnforcement{ForbiddenTypes: []string{typeName}},
		}
	}
}

func forbidRegex(pattern string) func(clew.MatchInput) types.Enforcement {
	return func(clew.MatchInput) types.Enforcement {
		return types.Enforcement{
			Tag:   types.EnforcementRegex,
			Regex: &types.RegexEnforcement{Pattern: pattern, Action: types.ActionForbid},
		}
	}
}

func maskToken(pattern, action string) func(clew.MatchInput) types.Enforcement {
	return func(clew.MatchInput) types.Enforcement {
		return types.Enforcement{
			Tag: types.EnforcementTokenMask,
			TokenMask: &types.TokenMaskEnforcement{
				Rules: []types.TokenMaskRule{{Pattern: pattern, Action: action}},
			},
		}
	}
}

// rule is a terser constructor used by the per-language tables below.
func rule(name string, anchor byte, predicate func(clew.MatchInput) bool, baseConfidence float64, tmpl types.Kind, priority types.Priority, severity types.Severity, description string, enforcement func(clew.MatchInput) types.Enforcement, produces, consumes []string) clew.Rule {
	return clew.Rule{
		Name:           name,
		Anchor:         anchor,
		Predicate:      predicate,
		BaseConfidence: baseConfidence,
		Template: clew.Template{
			Kind:            tmpl,
			Name:            name,
			Description:     description,
			Priority:        priority,
			DefaultSeverity: severity,
			Enforcement:     enforcement,
			Produces:        produces,
			Consumes:        consumes,
		},
	}
}
