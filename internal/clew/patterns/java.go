package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// JavaRules covers Java. Like the C family, Java has no tree-sitter grammar
// wired in this module, so all predicates are scanner-path token checks.
func JavaRules() []clew.Rule {
	return []clew.Rule{
		rule("no_runtime_exec", anchorOf("Runtime"), containsToken("Runtime.getRuntime().exec"), 0.9,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"Runtime.exec with concatenated input is a command-injection vector",
			maskToken(`Runtime\.getRuntime\(\)\.exec`, "forbid"), nil, nil),

		rule("no_raw_type_usage", anchorOf("List"), containsToken("List list"), 0.3,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"raw generic types lose compile-time element checking",
			forbidType("raw_generic"), nil, nil),

		rule("no_null_return_for_collection", anchorOf("return"), containsToken("return null"), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"return an empty collection instead of null",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_null_collection"}}}
			}, nil, nil),

		rule("no_printstacktrace", anchorOf("printStackTrace"), containsToken(".printStackTrace()"), 0.8,
			types.KindOperational, types.PriorityMedium, types.SeverityWarning,
			"printStackTrace writes to stderr and loses the exception; log or rethrow",
			forbidRegex(`\.printStackTrace\(\)`), nil, nil),

		rule("no_empty_catch", anchorOf("catch"), containsToken("catch ("), 0.3,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"an empty catch block silently discards the exception",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_empty_catch"}}}
			}, nil, nil),

		rule("no_string_equality_operator", anchorOf("="), containsToken(`== "`), 0.7,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"comparing strings with == checks identity, not equality",
			forbidRegex(`==\s*"`), nil, nil),

		rule("no_serializable_without_uid", anchorOf("Serializable"), containsToken("implements Serializable"), 0.3,
			types.KindArchitectural, types.PriorityLow, types.SeverityHint,
			"a Serializable class should declare serialVersionUID",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "serializable_needs_uid"}}}
			}, nil, nil),

		rule("no_system_out_println", anchorOf("System"), containsToken("System.out.println"), 0.5,
			types.KindOperational, types.PriorityLow, types.SeverityHint,
			"System.out.println in library code bypasses the logging framework",
			forbidRegex(`System\.out\.println`), nil, nil),

		rule("no_reflection_setaccessible", anchorOf("setAccessible"), containsToken("setAccessible(true)"), 0.8,
			types.KindSecurity, types.PriorityHigh, types.SeverityError,
			"setAccessible(true) defeats access control and breaks under the module system",
			forbidRegex(`setAccessible\(true\)`), nil, nil),

		rule("no_finalize_override", anchorOf("finalize"), containsToken("protected void finalize"), 0.8,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"finalize() is deprecated and unreliable; use Cleaner or try-with-resources",
			forbidRegex(`protected\s+void\s+finalize\(`), nil, nil),
	}
}
