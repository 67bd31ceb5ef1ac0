package types

import "github.com/google/uuid"

// Clone returns a deep copy of the IR. The cache hands out clones on hit:
// ownership of the returned IR transfers to the caller, and a caller
// mutating its copy must not corrupt the version the cache still holds.
func (ir ConstraintIR) Clone() ConstraintIR {
	out := ConstraintIR{}
	if ir.JSONSchema != nil {
		out.JSONSchema = &JSONSchemaIR{Root: cloneValue(ir.JSONSchema.Root).(map[string]any)}
	}
	if ir.Grammar != nil {
		out.Grammar = &GrammarIR{
			Rules: append([]GrammarRule(nil), ir.Grammar.Rules...),
			Start: ir.Grammar.Start,
		}
	}
	if ir.Regex != nil {
		r := *ir.Regex
		out.Regex = &r
	}
	if ir.TokenMask != nil {
		out.TokenMask = &TokenMaskRulesIR{Rules: append([]TokenMaskRule(nil), ir.TokenMask.Rules...)}
	}
	return out
}

// Clone returns a deep copy of the manifest.
func (m Manifest) Clone() Manifest {
	out := Manifest{
		Disabled: append([]DisabledConstraint(nil), m.Disabled...),
		Warnings: append([]string(nil), m.Warnings...),
	}
	if m.Entries != nil {
		out.Entries = make([]ManifestEntry, len(m.Entries))
		for i, e := range m.Entries {
			out.Entries[i] = ManifestEntry{
				IRKind:        e.IRKind,
				FragmentRef:   e.FragmentRef,
				ConstraintIDs: append([]uuid.UUID(nil), e.ConstraintIDs...),
			}
		}
	}
	return out
}

// cloneValue deep-copies the JSON-shaped value graphs (maps, slices,
// scalars) a schema root is built from.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item).(map[string]any)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return val
	}
}
