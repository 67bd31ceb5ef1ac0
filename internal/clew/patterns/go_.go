package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// GoRules covers Go.
func GoRules() []clew.Rule {
	return []clew.Rule{
		rule("no_ignored_error_return", anchorOf("_"), containsToken("_ = "), 0.3,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"assigning an error to _ discards it without a log or comment",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "discarded_error"}}}
			}, nil, nil),

		rule("no_panic_in_library", anchorOf("panic"), containsToken("panic("), 0.5,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"library code should return an error instead of panicking",
			forbidRegex(`\bpanic\(`), nil, nil),

		rule("require_context_first_param", anchorOf("func"), nodeKindIs("function_declaration"), 0.3,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"a blocking function should take context.Context as its first parameter",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "function_declaration", Action: types.ActionRequire}}
			}, nil, nil),

		rule("no_goroutine_without_recover", anchorOf("go"), containsToken("go func"), 0.3,
			types.KindOperational, types.PriorityMedium, types.SeverityWarning,
			"a goroutine that panics without recover crashes the whole process",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "goroutine_needs_recover"}}}
			}, nil, nil),

		rule("no_naked_return_long_func", anchorOf("return"), nodeKindIs("return_statement"), 0.1,
			types.KindSyntactic, types.PriorityLow, types.SeverityHint,
			"naked returns hurt readability in functions longer than a few lines",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "return_statement", Action: types.ActionForbid}}
			}, nil, nil),

		rule("no_package_level_mutable_singleton", anchorOf("var"), containsToken("var global"), 0.3,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"package-level mutable singletons complicate testing and concurrency reasoning",
			forbidRegex(`var\s+global\w*\s`), nil, nil),

		rule("require_error_wrap_with_pct_w", anchorOf("fmt"), containsToken("fmt.Errorf("), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityHint,
			"wrap errors with %w so callers can unwrap/Is/As them",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "error_needs_pct_w"}}}
			}, nil, nil),

		rule("no_unbuffered_channel_leak", anchorOf("make"), containsToken("make(chan"), 0.1,
			types.KindOperational, types.PriorityOptional, types.SeverityHint,
			"an unbuffered channel with no matched receiver leaks the sending goroutine",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "channel_leak_risk"}}}
			}, nil, nil),

		rule("no_interface_any_param", anchorOf("interface"), containsToken("interface{}"), 0.4,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"interface{} (or any) parameters defeat compile-time type checking",
			forbidType("interface{}"), nil, nil),

		rule("require_defer_close_on_open_resource", anchorOf("Open"), containsToken(".Open("), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"an opened resource (file, response body) should be deferred-closed",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "resource_needs_defer_close"}}}
			}, nil, nil),

		rule("no_exported_struct_without_doc", anchorOf("type"), nodeKindIs("type_declaration"), 0.2,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"exported types should carry a doc comment starting with their name",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "type_declaration", Action: types.ActionRequire}}
			}, nil, nil),

		rule("no_os_exit_in_library", anchorOf("os"), containsToken("os.Exit("), 0.7,
			types.KindOperational, types.PriorityHigh, types.SeverityError,
			"os.Exit bypasses deferred cleanup and must stay out of library code",
			forbidRegex(`os\.Exit\(`), nil, nil),

		rule("require_lock_unlock_pair", anchorOf("Lock"), containsToken(".Lock()"), 0.3,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"a Lock() without a matching deferred Unlock() risks a permanent deadlock",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "lock_needs_defer_unlock"}}}
			}, nil, nil),

		rule("no_reflect_deepequal_in_prod", anchorOf("reflect"), containsToken("reflect.DeepEqual"), 0.3,
			types.KindOperational, types.PriorityLow, types.SeverityHint,
			"reflect.DeepEqual is slow and permissive; prefer typed comparisons outside tests",
			forbidRegex(`reflect\.DeepEqual`), nil, nil),

		rule("no_time_now_in_pure_fn", anchorOf("time"), containsToken("time.Now()"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"time.Now() inside business logic makes the function untestable without a clock seam",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "inject_clock"}}}
			}, nil, nil),
	}
}
