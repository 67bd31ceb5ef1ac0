package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// TypeScriptRules covers TypeScript and JavaScript.
func TypeScriptRules() []clew.Rule {
	return []clew.Rule{
		rule("no_any_type", anchorOf("any"), containsToken("any"), 0.9,
			types.KindTypeSafety, types.PriorityHigh, types.SeverityError,
			`"any" defeats static typing; forbid it in type annotations`,
			forbidType("any"), []string{"no_any_type"}, nil),

		rule("no_implicit_any_param", anchorOf("function"), nodeKindIs("required_parameter"), 0.6,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"function parameters should carry an explicit type annotation",
			forbidType("implicit_any"), nil, nil),

		rule("prefer_const_over_let", anchorOf("let"), containsToken("let "), 0.7,
			types.KindSyntactic, types.PriorityLow, types.SeverityHint,
			"prefer const for bindings that are never reassigned",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "variable_declaration", Pattern: "let", Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_var_declaration", anchorOf("var"), containsToken("var "), 0.85,
			types.KindSyntactic, types.PriorityMedium, types.SeverityWarning,
			"var has function scoping footguns; use let/const",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "variable_declaration", Pattern: "var", Action: types.ActionForbid}}
			}, nil, nil),

		rule("no_non_null_assertion", anchorOf("!"), containsToken("!."), 0.6,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"non-null assertion (!.) bypasses null checking",
			forbidRegex(`![.]`), nil, nil),

		rule("no_ts_ignore_comment", anchorOf("@"), containsToken("@ts-ignore"), 0.95,
			types.KindTypeSafety, types.PriorityHigh, types.SeverityError,
			"@ts-ignore silences the type checker instead of fixing the type error",
			forbidRegex(`@ts-ignore`), nil, nil),

		rule("require_strict_equality", anchorOf("="), containsToken("=="), 0.5,
			types.KindSyntactic, types.PriorityMedium, types.SeverityWarning,
			"use === / !== instead of the coercing == / !=",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementRegex, Regex: &types.RegexEnforcement{Pattern: `[^=!]==[^=]`, Action: types.ActionForbid}}
			}, nil, nil),

		rule("no_console_log", anchorOf("console"), containsToken("console.log"), 0.5,
			types.KindOperational, types.PriorityLow, types.SeverityHint,
			"console.log left in shipped code; use a structured logger",
			forbidRegex(`console\.log\(`), nil, nil),

		rule("async_function_requires_await", anchorOf("async"), nodeKindIs("function_declaration"), 0.6,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"an async function with no await is usually a mistake",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "async_requires_await"}}}
			}, []string{"async_function"}, nil),

		rule("no_floating_promise", anchorOf("."), containsToken(".then("), 0.5,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"a Promise chain with no await/catch/return can swallow rejections",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_floating_promise"}}}
			}, nil, nil),

		rule("require_interface_over_type_for_objects", anchorOf("type"), nodeKindIs("type_alias_declaration"), 0.3,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"prefer interface for extensible object shapes",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "type_alias_declaration", Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_empty_catch_block", anchorOf("catch"), nodeKindIs("catch_clause"), 0.6,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"an empty catch block silently discards errors",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "catch_clause", Action: types.ActionForbid}}
			}, nil, nil),

		rule("export_requires_jsdoc", anchorOf("export"), nodeKindIs("export_statement"), 0.3,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"exported declarations should carry a doc comment",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "export_requires_doc"}}}
			}, nil, nil),

		rule("no_unknown_without_narrowing", anchorOf("unknown"), containsToken("unknown"), 0.6,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"unknown must be narrowed before use",
			forbidType("unknown_unnarrowed"), nil, []string{"no_any_type"}),

		rule("no_as_any_cast", anchorOf("as"), containsToken("as any"), 0.85,
			types.KindTypeSafety, types.PriorityHigh, types.SeverityError,
			`"as any" reintroduces the untyped escape hatch no_any_type forbids`,
			forbidRegex(`as\s+any`), nil, []string{"no_any_type"}),

		rule("no_object_any_index", anchorOf("["), containsToken("[key: string]: any"), 0.7,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"untyped index signatures defeat property type checking",
			forbidRegex(`\[key:\s*string\]:\s*any`), nil, []string{"no_any_type"}),

		rule("require_return_type_on_exported_fn", anchorOf("export"), nodeKindIs("function_declaration"), 0.4,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"exported functions should declare an explicit return type",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "function_declaration", Action: types.ActionRequire}}
			}, nil, nil),

		rule("no_default_export", anchorOf("default"), containsToken("export default"), 0.3,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"named exports are easier to refactor and grep than default exports",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "export_statement", Pattern: "default", Action: types.ActionForbid}}
			}, nil, nil),

		rule("no_require_in_esm", anchorOf("require"), containsToken("require("), 0.5,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"mixing CommonJS require() into an ESM module",
			forbidRegex(`\brequire\(`), nil, nil),

		rule("no_debugger_statement", anchorOf("debugger"), containsToken("debugger"), 0.9,
			types.KindOperational, types.PriorityHigh, types.SeverityError,
			"debugger statements must not reach production code",
			forbidRegex(`\bdebugger\b`), nil, nil),

		rule("enum_requires_const", anchorOf("enum"), containsToken("enum "), 0.4,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"prefer const enum to avoid reverse-mapping runtime overhead",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "enum_declaration", Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_nested_ternary", anchorOf("?"), containsToken("? "), 0.3,
			types.KindSyntactic, types.PriorityLow, types.SeverityHint,
			"nested ternaries hurt readability",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "ternary_expression", Action: types.ActionForbid}}
			}, nil, nil),

		rule("no_eval_call", anchorOf("eval"), containsToken("eval("), 0.95,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"eval() permits arbitrary code execution from string input",
			maskToken(`eval\(`, "forbid"), nil, nil),

		rule("no_innerhtml_assignment", anchorOf("innerHTML"), containsToken("innerHTML ="), 0.8,
			types.KindSecurity, types.PriorityHigh, types.SeverityError,
			"direct innerHTML assignment is an XSS sink without sanitization",
			maskToken(`\.innerHTML\s*=`, "forbid"), nil, nil),

		rule("no_promise_executor_async", anchorOf("new"), containsToken("new Promise(async"), 0.6,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"an async Promise executor swallows rejections",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_async_promise_executor"}}}
			}, nil, nil),

		rule("require_exhaustive_switch", anchorOf("switch"), nodeKindIs("switch_statement"), 0.3,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"a switch over a union type should be exhaustive",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "switch_statement", Action: types.ActionRequire}}
			}, nil, nil),

		rule("no_array_any", anchorOf("any"), containsToken("any[]"), 0.85,
			types.KindTypeSafety, types.PriorityHigh, types.SeverityError,
			"any[] is as unsafe as any for every element access",
			forbidRegex(`any\[\]`), nil, []string{"no_any_type"}),

		rule("no_function_constructor", anchorOf("Function"), containsToken("new Function("), 0.9,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"the Function constructor is eval() by another name",
			maskToken(`new\s+Function\(`, "forbid"), nil, nil),

		rule("no_with_statement", anchorOf("with"), containsToken("with ("), 0.8,
			types.KindSyntactic, types.PriorityHigh, types.SeverityError,
			"the with statement makes scope resolution ambiguous and is disallowed in strict mode",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "with_statement", Action: types.ActionForbid}}
			}, nil, nil),

		rule("require_readonly_props", anchorOf("interface"), nodeKindIs("interface_declaration"), 0.2,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"prefer readonly properties on data-transfer interfaces",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "interface_declaration", Action: types.ActionPrefer}}
			}, nil, nil),
	}
}
