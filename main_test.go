package main

import (
	"context"
	"path/filepath"
	"testing"

	"AutoCenter/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFailedCommandStillClosesDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("AUTOCENTER_DATA_DIR", dir)

	rootCmd.SetArgs([]string{"print", "999"})
	err := rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, db, "database left open after a failed command")

	// The file is released and can be reopened.
	s, err := store.Open(filepath.Join(dir, "oficina.db"), zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestCleanupIsIdempotent(t *testing.T) {
	s, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	db, logger = s, zap.NewNop()
	t.Cleanup(func() { db, logger = nil, nil })

	cleanup()
	assert.Nil(t, db)
	cleanup()
}
