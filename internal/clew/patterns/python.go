package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// PythonRules covers Python.
func PythonRules() []clew.Rule {
	return []clew.Rule{
		rule("no_bare_except", anchorOf("except"), containsToken("except:"), 0.85,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"a bare except: swallows every exception including KeyboardInterrupt",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "except_clause", Action: types.ActionForbid}}
			}, nil, nil),

		rule("no_mutable_default_arg", anchorOf("def"), nodeKindIs("default_parameter"), 0.6,
			types.KindSemantic, types.PriorityHigh, types.SeverityWarning,
			"mutable default arguments (list/dict literal) are shared across calls",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_mutable_default"}}}
			}, nil, nil),

		rule("no_wildcard_import", anchorOf("from"), containsToken("import *"), 0.7,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"wildcard imports pollute the module namespace and hide dependencies",
			forbidRegex(`from\s+\S+\s+import\s+\*`), nil, nil),

		rule("require_type_hints_on_public_fn", anchorOf("def"), nodeKindIs("function_definition"), 0.4,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"public functions should carry parameter and return type hints",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "function_definition", Action: types.ActionRequire}}
			}, nil, nil),

		rule("no_eval_call", anchorOf("eval"), containsToken("eval("), 0.95,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"eval() executes arbitrary strings as Python code",
			maskToken(`eval\(`, "forbid"), nil, nil),

		rule("no_exec_call", anchorOf("exec"), containsToken("exec("), 0.95,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"exec() executes arbitrary strings as Python statements",
			maskToken(`exec\(`, "forbid"), nil, nil),

		rule("no_pickle_loads_untrusted", anchorOf("pickle"), containsToken("pickle.loads"), 0.85,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"pickle.loads on untrusted input allows arbitrary code execution",
			maskToken(`pickle\.loads\(`, "forbid"), nil, nil),

		rule("no_shell_true", anchorOf("shell"), containsToken("shell=True"), 0.8,
			types.KindSecurity, types.PriorityHigh, types.SeverityError,
			"subprocess with shell=True is a command-injection vector",
			forbidRegex(`shell\s*=\s*True`), nil, nil),

		rule("no_assert_for_validation", anchorOf("assert"), containsToken("assert "), 0.4,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"assert is stripped under python -O; don't use it for input validation",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_assert_validation"}}}
			}, nil, nil),

		rule("prefer_fstring_over_percent", anchorOf("%"), containsToken("%s"), 0.3,
			types.KindSyntactic, types.PriorityLow, types.SeverityHint,
			"prefer f-strings over %-formatting for readability",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementRegex, Regex: &types.RegexEnforcement{Pattern: `%s`, Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_global_statement", anchorOf("global"), containsToken("global "), 0.6,
			types.KindArchitectural, types.PriorityMedium, types.SeverityWarning,
			"global mutates module state from function scope, hurting testability",
			forbidRegex(`\bglobal\s+\w+`), nil, nil),

		rule("no_star_args_without_docs", anchorOf("*"), containsToken("**kwargs"), 0.2,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"**kwargs without a docstring hides the accepted keyword arguments",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "kwargs_needs_docs"}}}
			}, nil, nil),

		rule("no_print_in_library_code", anchorOf("print"), containsToken("print("), 0.3,
			types.KindOperational, types.PriorityLow, types.SeverityHint,
			"library code should log, not print, to stdout",
			forbidRegex(`\bprint\(`), nil, nil),

		rule("no_type_ignore_comment", anchorOf("#"), containsToken("# type: ignore"), 0.8,
			types.KindTypeSafety, types.PriorityHigh, types.SeverityError,
			"# type: ignore silences mypy instead of fixing the type error",
			forbidRegex(`#\s*type:\s*ignore`), nil, nil),

		rule("no_hardcoded_credential", anchorOf("password"), containsToken("password ="), 0.75,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"a literal assigned to a credential-like name is a hardcoded secret",
			maskToken(`password\s*=\s*"`, "forbid"), nil, nil),

		rule("no_yaml_load_unsafe", anchorOf("yaml"), containsToken("yaml.load("), 0.75,
			types.KindSecurity, types.PriorityHigh, types.SeverityError,
			"yaml.load without SafeLoader can instantiate arbitrary Python objects",
			forbidRegex(`yaml\.load\([^,)]*\)`), nil, nil),

		rule("require_dataclass_over_dict_bag", anchorOf("class"), nodeKindIs("class_definition"), 0.2,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"prefer a dataclass to an untyped dict for structured records",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementStructural, Structural: &types.StructuralEnforcement{NodeKind: "class_definition", Action: types.ActionPrefer}}
			}, nil, nil),

		rule("no_os_system_call", anchorOf("os"), containsToken("os.system("), 0.8,
			types.KindSecurity, types.PriorityHigh, types.SeverityError,
			"os.system passes strings straight to the shell",
			forbidRegex(`os\.system\(`), nil, nil),

		rule("require_context_manager_for_files", anchorOf("open"), containsToken("open("), 0.3,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"file handles opened without a with-block may leak on exception",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "file_needs_context_manager"}}}
			}, nil, nil),

		rule("no_import_side_effects_at_module_level", anchorOf("import"), nodeKindIs("import_statement"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"importing a module should not trigger side effects",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "no_import_side_effects"}}}
			}, nil, nil),

		rule("no_broad_exception_catch", anchorOf("Exception"), containsToken("except Exception"), 0.5,
			types.KindSemantic, types.PriorityMedium, types.SeverityWarning,
			"catching the base Exception class masks unrelated bugs",
			forbidRegex(`except\s+Exception\b`), nil, nil),

		rule("require_init_py_for_package", anchorOf("__"), containsToken("__init__"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"package directories should declare their public surface in __init__.py",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "package_needs_init"}}}
			}, nil, nil),

		rule("no_lambda_assigned_to_name", anchorOf("lambda"), containsToken("= lambda"), 0.3,
			types.KindSyntactic, types.PriorityLow, types.SeverityHint,
			"a lambda bound to a name should be a def instead (PEP 8)",
			forbidRegex(`=\s*lambda\b`), nil, nil),

		rule("no_input_in_py2_style", anchorOf("input"), containsToken("input("), 0.2,
			types.KindSemantic, types.PriorityLow, types.SeverityHint,
			"input() returns a raw string; validate and convert before trusting it",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "validate_input"}}}
			}, nil, nil),

		rule("require_dunder_all_on_public_module", anchorOf("__all__"), containsToken("__all__"), 0.1,
			types.KindArchitectural, types.PriorityOptional, types.SeverityHint,
			"a module with a public API should declare __all__",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "module_needs_dunder_all"}}}
			}, nil, nil),
	}
}
