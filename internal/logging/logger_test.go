package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNoopLoggerIsSafeEverywhere(t *testing.T) {
	l := Noop()
	l.Debug(CategoryExtraction, "ignored")
	l.Info(CategoryCompilation, "ignored", zap.Int("n", 1))
	l.Warn(CategoryCache, "ignored")
	l.Error(CategoryDSL, "ignored")
	assert.NoError(t, l.Sync())
}

func TestNilLoggerMethodsDoNotPanic(t *testing.T) {
	var l *Logger
	l.Warn(CategoryExtraction, "still fine")
	assert.NoError(t, l.Sync())
}

func TestNewBuildsAtRequestedLevel(t *testing.T) {
	l, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Debug(CategorySerializer, "debug lines enabled")

	l, err = New(false)
	require.NoError(t, err)
	l.Info(CategoryCache, "info lines enabled")
}
