package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// RustRules covers Rust.
func RustRules() []clew.Rule {
	return []clew.Rule{
		rule("no_unwrap_on_result", anchorOf("unwrap"), containsToken(".unwrap()"), 0.6,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"unwrap() panics instead of propagating the error",
			forbidRegex(`\.unwrap\(\)`), nil, nil),

		rule("no_unwrap_on_option", anchorOf("expect"), containsToken(".expect("), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityHint,
			"expect() panics with a message; prefer ? propagation in library code",
			forbidRegex(`\.expect\(`), nil, nil),

		rule("no_unsafe_block_undocumented", anchorOf("unsafe"), nodeKindIs("unsafe_block"), 0.5,
			types.KindSecurity, types.PriorityHigh, types.SeverityWarning,
			"an unsafe block should carry a comment justifying its invariants",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "unsafe_block", Action: types.ActionRequire}}
			}, nil, nil),

		rule("no_mem_transmute", anchorOf("transmute"), containsToken("mem::transmute"), 0.85,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"mem::transmute bypasses the type system and can produce undefined behavior",
			maskToken(`mem::transmute`, "forbid"), nil, nil),

		rule("no_clone_in_hot_loop", anchorOf("clone"), containsToken(".clone()"), 0.2,
			types.KindOperational, types.PriorityLow, types.SeverityHint,
			"repeated clone() inside a loop often masks an avoidable allocation",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "clone_in_loop"}}}
			}, nil, nil),

		rule("require_result_over_panic", anchorOf("panic"), containsToken("panic!("), 0.5,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"library functions should return Result instead of panicking",
			forbidRegex(`panic!\(`), nil, nil),

		rule("no_unwrap_err_ignored", anchorOf("let"), containsToken("let _ = "), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"binding a Result to _ silently discards an error",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "discarded_result"}}}
			}, nil, nil),

		rule("require_derive_debug_on_public_struct", anchorOf("struct"), nodeKindIs("struct_item"), 0.2,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"public structs should derive Debug for diagnosability",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "struct_item", Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_unbounded_recursion", anchorOf("fn"), nodeKindIs("function_item"), 0.1,
			types.KindOperational, types.PriorityOptional, types.SeverityHint,
			"recursive functions without an explicit base case risk stack overflow",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "unbounded_recursion"}}}
			}, nil, nil),

		rule("no_mutex_lock_unwrap", anchorOf("lock"), containsToken(".lock().unwrap()"), 0.5,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"unwrapping a poisoned mutex propagates a panic across threads",
			forbidRegex(`\.lock\(\)\.unwrap\(\)`), nil, nil),

		rule("require_non_exhaustive_on_public_enum", anchorOf("enum"), nodeKindIs("enum_item"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"a public enum likely to grow variants should be #[non_exhaustive]",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "enum_item", Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_static_mut", anchorOf("static"), containsToken("static mut"), 0.8,
			types.KindSecurity, types.PriorityHigh, types.SeverityError,
			"static mut is inherently unsynchronized shared mutable state",
			forbidRegex(`static\s+mut\s+\w+`), nil, nil),

		rule("no_box_leak", anchorOf("leak"), containsToken("Box::leak"), 0.6,
			types.KindOperational, types.PriorityMedium, types.SeverityWarning,
			"Box::leak intentionally leaks memory; confirm this is the intended lifetime",
			forbidRegex(`Box::leak`), nil, nil),

		rule("require_error_impl_std_error", anchorOf("enum"), containsToken("Error"), 0.2,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"a custom error type should implement std::error::Error",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "error_needs_std_error"}}}
			}, nil, nil),

		rule("no_string_concat_in_loop", anchorOf("+"), containsToken("+= &"), 0.3,
			types.KindOperational, types.PriorityLow, types.SeverityHint,
			"repeated String += in a loop reallocates; prefer a pre-sized buffer",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "string_concat_in_loop"}}}
			}, nil, nil),

		rule("no_allow_dead_code_blanket", anchorOf("allow"), containsToken("#![allow(dead_code)]"), 0.5,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"a crate-wide dead_code allow hides genuinely unused code",
			forbidRegex(`#!\[allow\(dead_code\)\]`), nil, nil),

		rule("require_must_use_on_builder", anchorOf("fn"), containsToken("-> Self"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"builder methods returning Self should be #[must_use]",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "builder_must_use"}}}
			}, nil, nil),

		rule("no_indexing_without_get", anchorOf("["), containsToken("[0]"), 0.2,
			types.KindSemantic, types.PriorityLow, types.SeverityHint,
			"direct indexing panics out of bounds; prefer .get() or .first()",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "prefer_checked_indexing"}}}
			}, nil, nil),

		rule("no_todo_macro_left_in", anchorOf("todo"), containsToken("todo!("), 0.8,
			types.KindOperational, types.PriorityHigh, types.SeverityError,
			"todo!() panics at runtime and must not ship",
			forbidRegex(`todo!\(`), nil, nil),

		rule("no_unreachable_with_live_arm", anchorOf("unreachable"), containsToken("unreachable!()"), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"unreachable!() must genuinely be unreachable; verify the match is exhaustive without it",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "verify_unreachable"}}}
			}, nil, nil),
	}
}
