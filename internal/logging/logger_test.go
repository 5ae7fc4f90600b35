package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := New("info", file, false)
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())

	logger.Info("order saved", zap.Int64("id", 7))
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order saved")
	assert.NotContains(t, string(data), "hidden")
	assert.Same(t, logger, zap.L())
}

func TestVerboseEnablesDebug(t *testing.T) {
	logger, err := New("error", "", true)
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestInvalidLevel(t *testing.T) {
	_, err := New("loud", "", false)
	assert.Error(t, err)
}
