package types

import (
	"bytes"
	"encoding/json"
	"sort"
)

// CanonicalJSON renders a ConstraintSet into the deterministic byte form
// used as the input to content hashing: sorted object keys, no superfluous
// whitespace, lowercase kind/severity/priority tags, optional provenance
// fields omitted when empty. Hashing uses this no-indent form; the
// 2-space-indent form is cosmetic and produced separately by the IR
// serializer for persisted artifacts.
func CanonicalJSON(s *ConstraintSet) ([]byte, error) {
	docs := make([]canonicalConstraint, 0, s.Len())
	for _, c := range s.Items() {
		docs = append(docs, toCanonical(c))
	}
	return canonicalMarshal(docs)
}

// canonicalMarshal marshals v through a generic map/slice round-trip so
// object keys are sorted regardless of Go struct field declaration order.
// encoding/json already sorts map keys; converting structs to
// map[string]any via a JSON round-trip (rather than hand-rolling a
// recursive sorter) keeps this honest about exactly what the stdlib will
// emit on the wire.
func canonicalMarshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encodeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// canonicalConstraint mirrors Constraint but normalizes tags to lowercase
// (they already are, by construction) and omits empty optional fields. It
// exists so CanonicalJSON's shape is independent of any future additions to
// Constraint that aren't meant to participate in the content hash (e.g. a
// purely cosmetic field).
type canonicalConstraint struct {
	Kind        Kind                 `json:"kind"`
	Name        string               `json:"name"`
	Priority    string               `json:"priority"`
	Severity    Severity             `json:"severity"`
	Enforcement Enforcement          `json:"enforcement"`
	SourceTag   SourceTag            `json:"source_tag"`
	Produces    []string             `json:"produces,omitempty"`
	Consumes    []string             `json:"consumes,omitempty"`
	Provenance  *canonicalProvenance `json:"provenance,omitempty"`
	Disabled    bool                 `json:"disabled,omitempty"`
}

// canonicalProvenance is Provenance minus the timestamp: the wall-clock
// stamp is audit metadata, not constraint content, and keeping it out of
// the canonical form is what makes two extractions of the same source hash
// identically.
type canonicalProvenance struct {
	SourceFile     string  `json:"source_file,omitempty"`
	LineRangeStart int     `json:"line_range_start,omitempty"`
	LineRangeEnd   int     `json:"line_range_end,omitempty"`
	Extractor      string  `json:"extractor,omitempty"`
	Version        string  `json:"version,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
}

func toCanonical(c Constraint) canonicalConstraint {
	cc := canonicalConstraint{
		Kind:        c.Kind,
		Name:        c.Name,
		Priority:    c.Priority.String(),
		Severity:    c.Severity,
		Enforcement: c.Enforcement,
		SourceTag:   c.Source.Tag,
		Produces:    c.Produces,
		Consumes:    c.Consumes,
		Disabled:    c.Disabled,
	}
	if c.Provenance != nil {
		cc.Provenance = &canonicalProvenance{
			SourceFile:     c.Provenance.SourceFile,
			LineRangeStart: c.Provenance.LineRangeStart,
			LineRangeEnd:   c.Provenance.LineRangeEnd,
			Extractor:      c.Provenance.Extractor,
			Version:        c.Provenance.Version,
			Confidence:     c.Provenance.Confidence,
		}
	}
	return cc
}
