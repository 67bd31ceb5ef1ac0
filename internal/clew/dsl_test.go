package clew

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraintcore/internal/types"
)

func TestParseDSLDerivesConstraintFromFact(t *testing.T) {
	source := `constraint("no_global_mutable_state", "architectural", "high", "warning",
  "{\"tag\":\"semantic\",\"semantic\":{\"properties\":{\"rule\":\"no_globals\"}}}").`

	set, err := ParseDSL(source)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	c := set.Items()[0]
	assert.Equal(t, "no_global_mutable_state", c.Name)
	assert.Equal(t, types.KindArchitectural, c.Kind)
	assert.Equal(t, types.PriorityHigh, c.Priority)
	assert.Equal(t, types.SeverityWarning, c.Severity)
	assert.Equal(t, types.SourceDSL, c.Source.Tag)
	assert.Equal(t, types.EnforcementSemantic, c.Enforcement.Tag)
}

func TestParseDSLRejectsMalformedSource(t *testing.T) {
	_, err := ParseDSL("this is not mangle syntax @@@")
	require.Error(t, err)
	var parseErr *ParseDSLError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseDSLEmptySourceYieldsEmptySet(t *testing.T) {
	set, err := ParseDSL("")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}
