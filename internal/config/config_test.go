package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpec(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1024, cfg.CacheCapacity)
	assert.Equal(t, 0.3, cfg.ConfidenceFloor)
	assert.False(t, cfg.EnableExternalSemantic)
	assert.False(t, cfg.EnableExternalResolver)
	assert.Len(t, cfg.SupportedLanguages, 9)
}

func TestLoadAppliesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_capacity: 64\nconfidence_floor: 0.5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.CacheCapacity)
	assert.Equal(t, 0.5, cfg.ConfidenceFloor)
}

func TestLoadRejectsInvalidConfidenceFloor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("confidence_floor: 2.0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrideOnlyAppliesWhenFeatureEnabled(t *testing.T) {
	t.Setenv("SEMANTIC_SERVICE_URL", "http://example.invalid/semantic")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enable_external_semantic: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.SemanticServiceURL, "env override must not apply when the feature is disabled")

	require.NoError(t, os.WriteFile(path, []byte("enable_external_semantic: true\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.invalid/semantic", cfg.SemanticServiceURL)
}
