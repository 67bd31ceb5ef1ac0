package patterns

import (
	"constraintcore/internal/clew"
	"constraintcore/internal/types"
)

// SecurityRules are cross-cutting: they apply regardless of language or
// syntax node. The credential rule here is the language-agnostic companion
// of Python's no_hardcoded_credential in patterns.PythonRules.
func SecurityRules() []clew.Rule {
	return []clew.Rule{
		rule("no_hardcoded_credential_generic", anchorOf("secret"), containsToken("secret"), 0.5,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"an identifier containing a credential-like name bound to a string literal is a hardcoded secret",
			maskToken(`(?i)(password|secret|api[_-]?key|token)\s*[:=]\s*"[^"]{4,}"`, "forbid"), nil, nil),

		rule("no_aws_access_key_literal", anchorOf("AKIA"), containsToken("AKIA"), 0.9,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"a literal matching the AWS access key ID prefix is a leaked credential",
			maskToken(`AKIA[0-9A-Z]{16}`, "forbid"), nil, nil),

		rule("no_private_key_block", anchorOf("-"), containsToken("-----BEGIN"), 0.95,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"an embedded PEM private key block must never appear in source",
			maskToken(`-----BEGIN (RSA |EC )?PRIVATE KEY-----`, "forbid"), nil, nil),

		rule("no_sql_string_concatenation", anchorOf("SELECT"), containsToken("SELECT"), 0.3,
			types.KindSecurity, types.PriorityHigh, types.SeverityWarning,
			"building a SQL statement by string concatenation with a variable is a SQL-injection risk",
			func(clew.MatchInput) types.Enforcement {
				return types.Enforcement{Tag: types.EnforcementSemantic, Semantic: &types.SemanticEnforcement{Properties: map[string]any{"rule": "sql_injection_risk"}}}
			}, nil, nil),

		rule("no_weak_hash_md5", anchorOf("md5"), containsToken("md5"), 0.6,
			types.KindSecurity, types.PriorityHigh, types.SeverityWarning,
			"MD5 is cryptographically broken; do not use it for integrity or password hashing",
			forbidRegex(`(?i)\bmd5\b`), nil, nil),

		rule("no_weak_hash_sha1", anchorOf("sha1"), containsToken("sha1"), 0.5,
			types.KindSecurity, types.PriorityMedium, types.SeverityWarning,
			"SHA-1 is deprecated for security-sensitive hashing",
			forbidRegex(`(?i)\bsha1\b`), nil, nil),

		rule("no_disable_tls_verification", anchorOf("InsecureSkipVerify"), containsToken("InsecureSkipVerify: true"), 0.9,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			"disabling TLS certificate verification exposes the connection to MITM",
			maskToken(`InsecureSkipVerify:\s*true`, "forbid"), nil, nil),

		rule("no_permissive_file_mode", anchorOf("0777"), containsToken("0777"), 0.5,
			types.KindSecurity, types.PriorityMedium, types.SeverityWarning,
			"world-writable file permissions (0777) are rarely intentional",
			forbidRegex(`0o?777`), nil, nil),

		rule("no_jwt_none_algorithm", anchorOf("none"), containsToken(`"alg":"none"`), 0.9,
			types.KindSecurity, types.PriorityCritical, types.SeverityError,
			`a JWT signed with alg:"none" has no integrity protection at all`,
			maskToken(`"alg"\s*:\s*"none"`, "forbid"), nil, nil),
	}
}
