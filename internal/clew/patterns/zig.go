package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// ZigRules covers Zig. Zig has no tree-sitter grammar in this module's
// dependency set, so these rules are written against scanned tokens only;
// MatchInput.NodeKind is always empty for zig source.
func ZigRules() []clew.Rule {
	return []clew.Rule{
		rule("require_errdefer_after_alloc", anchorOf("alloc"), containsToken(".alloc("), 0.4,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"an allocation without a matching errdefer leaks on the error path",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "alloc_needs_errdefer"}}}
			}, nil, nil),

		rule("no_unreachable_in_fallible_path", anchorOf("unreachable"), containsToken("unreachable"), 0.4,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"unreachable on a path that can actually occur is undefined behavior in release-fast builds",
			forbidRegex(`\bunreachable\b`), nil, nil),

		rule("no_catch_unreachable_swallow", anchorOf("catch"), containsToken("catch unreachable"), 0.5,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"catch unreachable turns a recoverable error into undefined behavior if it ever fires",
			forbidRegex(`catch\s+unreachable`), nil, nil),

		rule("require_defer_free_after_alloc", anchorOf("alloc"), containsToken("allocator.alloc"), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"an allocation should have a corresponding defer allocator.free",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "alloc_needs_defer_free"}}}
			}, nil, nil),

		rule("no_undefined_in_struct_default", anchorOf("undefined"), containsToken("= undefined"), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityHint,
			"a field defaulted to undefined must be fully initialized before use",
			forbidRegex(`=\s*undefined\b`), nil, nil),

		rule("require_comptime_for_generic_param", anchorOf("comptime"), containsToken("comptime "), 0.1,
			types.KindSemantic, types.PriorityOptional, types.SeverityHint,
			"a type-valued parameter should be marked comptime",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "generic_needs_comptime"}}}
			}, nil, nil),

		rule("no_extern_without_callconv", anchorOf("extern"), containsToken("extern fn"), 0.3,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"an extern function should pin its calling convention explicitly",
			forbidRegex(`extern\s+fn\b`), nil, nil),

		rule("no_anytype_on_public_api", anchorOf("anytype"), containsToken("anytype"), 0.5,
			types.KindTypeSafety, types.PriorityMedium, types.SeverityWarning,
			"anytype on a public function defers all type checking to the call site",
			forbidType("anytype"), nil, nil),

		rule("require_try_over_catch_ignore", anchorOf("catch"), containsToken("catch {}"), 0.5,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"catch {} silently discards an error union's error case",
			forbidRegex(`catch\s*\{\s*\}`), nil, nil),

		rule("no_packed_struct_without_comment", anchorOf("packed"), containsToken("packed struct"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"a packed struct's layout is load-bearing; document why it's packed",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "packed_needs_comment"}}}
			}, nil, nil),
	}
}
