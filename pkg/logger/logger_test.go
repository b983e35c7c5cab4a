package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageharvest/pkg/config"
)

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "verbose"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewAcceptsAllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "fatal", "disabled"} {
		t.Run(level, func(t *testing.T) {
			l, err := New(&config.LoggingConfig{Level: level})
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "harvest.log")

	l, err := New(&config.LoggingConfig{Level: "info", File: logFile})
	require.NoError(t, err)

	l.Info("file output works")

	info, err := os.Stat(logFile)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	base, err := New(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)

	child := base.WithField("query", "sunset")
	grandchild := child.WithFields(map[string]interface{}{"count": 5})

	assert.Empty(t, base.(*zerologLogger).fields)
	assert.Len(t, child.(*zerologLogger).fields, 1)
	assert.Len(t, grandchild.(*zerologLogger).fields, 2)
}

func TestWithErrorNilIsNoop(t *testing.T) {
	base, err := New(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)

	assert.Same(t, base, base.WithError(nil))

	withErr := base.WithError(errors.New("boom"))
	assert.Equal(t, "boom", withErr.(*zerologLogger).fields["error"])
}

func TestInitializeAndGetLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "debug"}))

	l := GetLogger()
	require.NotNil(t, l)

	// Logging through the global instance must not panic
	l.WithField("k", "v").Debug("global logger works")
	l.InfoWithFields("fields variant works", map[string]interface{}{
		"count":    3,
		"flag":     true,
		"fraction": 0.5,
	})
}
