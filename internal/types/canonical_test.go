package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func securityRegexConstraint(t *testing.T, name string) Constraint {
	t.Helper()
	c, err := NewConstraint(KindSecurity, name, PriorityHigh, SeverityError,
		Enforcement{Tag: EnforcementRegex, Regex: &RegexEnforcement{Pattern: `eval\(`, Action: ActionForbid}},
		Source{Tag: SourceStaticExtraction})
	require.NoError(t, err)
	return c
}

func TestCanonicalJSONExcludesConstraintID(t *testing.T) {
	c := securityRegexConstraint(t, "no_eval")
	s := NewConstraintSet()
	require.NoError(t, s.Add(c))

	raw, err := CanonicalJSON(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), c.ID.String(),
		"IDs are per-construction; the content hash must not depend on them")
}

func TestCanonicalJSONExcludesProvenanceTimestamp(t *testing.T) {
	mk := func(ts int64) []byte {
		c := securityRegexConstraint(t, "no_eval")
		c.Provenance = &Provenance{LineRangeStart: 3, LineRangeEnd: 5, Confidence: 0.8, Timestamp: ts}
		s := NewConstraintSet()
		require.NoError(t, s.Add(c))
		raw, err := CanonicalJSON(s)
		require.NoError(t, err)
		return raw
	}
	assert.Equal(t, mk(1000), mk(2000))
}

func TestCanonicalJSONKeysAreSortedAndCompact(t *testing.T) {
	c := securityRegexConstraint(t, "no_eval")
	s := NewConstraintSet()
	require.NoError(t, s.Add(c))

	raw, err := CanonicalJSON(s)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "\n", "the hashing form carries no indentation")

	// Round-trip through the stdlib to prove it is valid JSON and that
	// top-level object keys appear in sorted order.
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "no_eval", docs[0]["name"])
	assert.Equal(t, "high", docs[0]["priority"], "priority tag is lowercased")
}

func TestCanonicalJSONOmitsEmptyProvenance(t *testing.T) {
	c := securityRegexConstraint(t, "no_eval")
	c.Provenance = nil
	s := NewConstraintSet()
	require.NoError(t, s.Add(c))

	raw, err := CanonicalJSON(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "provenance")
}

func TestConstraintSetCloneIsIndependent(t *testing.T) {
	c := securityRegexConstraint(t, "no_eval")
	c.Provenance = &Provenance{Confidence: 0.9}
	s := NewConstraintSet()
	require.NoError(t, s.Add(c))

	clone := s.Clone()
	clone.Items()[0].Provenance.Confidence = 0.1

	assert.Equal(t, 0.9, s.Items()[0].Provenance.Confidence,
		"mutating a clone's provenance must not leak back into the original")
}

func TestMergeTakesMaxConfidenceAndWidensSpan(t *testing.T) {
	first := securityRegexConstraint(t, "no_eval")
	first.Provenance = &Provenance{LineRangeStart: 5, LineRangeEnd: 5, Confidence: 0.4}
	second := securityRegexConstraint(t, "no_eval")
	second.Provenance = &Provenance{LineRangeStart: 2, LineRangeEnd: 9, Confidence: 0.7}

	s := NewConstraintSet()
	require.NoError(t, s.Add(first))
	require.NoError(t, s.Add(second))
	require.Equal(t, 1, s.Len())

	p := s.Items()[0].Provenance
	assert.Equal(t, 2, p.LineRangeStart)
	assert.Equal(t, 9, p.LineRangeEnd)
	assert.Equal(t, 0.7, p.Confidence, "merged confidence is the max of the two")
}
