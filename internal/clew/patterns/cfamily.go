package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// CFamilyRules covers C and C++. These languages have no tree-sitter
// grammar in this module's dependency set and always run on the scanner
// path, so every predicate here is a token/substring check rather than a
// node-kind check.
func CFamilyRules() []clew.Rule {
	return []clew.Rule{
		rule("no_gets_call", anchorOf("gets"), containsToken("gets("), 0.95,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"gets() has no bounds check and was removed from C11; use fgets",
			maskToken(`\bgets\(`, "forbid"), nil, nil),

		rule("no_strcpy_unbounded", anchorOf("strcpy"), containsToken("strcpy("), 0.85,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"strcpy copies without a length bound; use strncpy or strlcpy",
			maskToken(`\bstrcpy\(`, "forbid"), nil, nil),

		rule("no_sprintf_unbounded", anchorOf("sprintf"), containsToken("sprintf("), 0.8,
			types.KindSecurity, types.PriorityHigh, types.SeverityError,
			"sprintf writes without a length bound; use snprintf",
			forbidRegex(`\bsprintf\(`), nil, nil),

		rule("no_system_call", anchorOf("system"), containsToken("system("), 0.8,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"system() passes strings straight to the shell",
			maskToken(`\bsystem\(`, "forbid"), nil, nil),

		rule("no_malloc_without_check", anchorOf("malloc"), containsToken("malloc("), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"a malloc return value must be checked against NULL before use",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "check_malloc_return"}}}
			}, nil, nil),

		rule("no_c_style_cast_in_cpp", anchorOf("("), containsToken("(void*)"), 0.3,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"C-style casts bypass the C++ cast taxonomy; use static_cast/reinterpret_cast",
			forbidRegex(`\(void\s*\*\)`), nil, nil),

		rule("no_goto_statement", anchorOf("goto"), containsToken("goto "), 0.5,
			types.KindSyntactic, types.PriorityMedium, types.SeverityWarning,
			"goto outside of cleanup blocks obscures control flow",
			forbidRegex(`\bgoto\s+\w+`), nil, nil),

		rule("no_define_constant", anchorOf("#"), containsToken("#define"), 0.2,
			types.KindSyntactic, types.PriorityLow, types.SeverityHint,
			"prefer const/constexpr over #define for typed constants",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementRegex, Regex: &types.RegexEnforcement{Pattern: `#define\s+[A-Z_]+\s+\d`, Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_raw_new_delete", anchorOf("new"), containsToken("new "), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"raw new/delete pairs leak on early return; use unique_ptr/make_unique",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "prefer_smart_pointers"}}}
			}, nil, nil),

		rule("no_using_namespace_std_in_header", anchorOf("using"), containsToken("using namespace std"), 0.7,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"using namespace std in a header leaks into every includer",
			forbidRegex(`using\s+namespace\s+std`), nil, nil),

		rule("no_uninitialized_pointer", anchorOf("*"), containsToken("* p;"), 0.2,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"an uninitialized pointer declaration invites use-before-assignment",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "initialize_pointers"}}}
			}, nil, nil),

		rule("no_atoi_without_validation", anchorOf("atoi"), containsToken("atoi("), 0.5,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"atoi gives no error indication on bad input; use strtol",
			forbidRegex(`\batoi\(`), nil, nil),

		rule("no_printf_variable_format", anchorOf("printf"), containsToken("printf(buf"), 0.7,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"passing a variable as a printf format string is a format-string vulnerability",
			maskToken(`printf\(\s*[a-z_]\w*\s*\)`, "forbid"), nil, nil),

		rule("require_include_guard", anchorOf("#"), containsToken("#ifndef"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"headers should carry an include guard or #pragma once",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "header_needs_guard"}}}
			}, nil, nil),
	}
}
