package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Destak Autocenter", cfg.App.Name)
	assert.Equal(t, 400, cfg.Signature.Width)
	assert.Equal(t, 200, cfg.Signature.Height)
	assert.Equal(t, filepath.Join(".", "oficina.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join("logs", "app.log"), cfg.LogFile())
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().FIPE.BaseURL, cfg.FIPE.BaseURL)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "conf", "autocenter.yaml")

	cfg := DefaultConfig()
	cfg.Shop.Name = "Oficina Teste"
	cfg.Signature.Width = 600
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Oficina Teste", got.Shop.Name)
	assert.Equal(t, 600, got.Signature.Width)
	assert.Equal(t, 200, got.Signature.Height)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fipe:\n  timeout: 3s\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.GetFIPETimeout())
	assert.Equal(t, "oficina.db", cfg.Paths.Database)
}

func TestLoadBadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTOCENTER_DATA_DIR", "/srv/shop")
	t.Setenv("AUTOCENTER_DB_PATH", "shop.db")
	t.Setenv("AUTOCENTER_FIPE_URL", "http://localhost:9999")
	t.Setenv("AUTOCENTER_FIPE_TIMEOUT", "2s")
	t.Setenv("AUTOCENTER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, filepath.Join("/srv/shop", "shop.db"), cfg.DBPath())
	assert.Equal(t, "http://localhost:9999", cfg.FIPE.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.GetFIPETimeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("AUTOCENTER_LOG_LEVEL", "")
	os.Unsetenv("AUTOCENTER_LOG_LEVEL")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTOCENTER_LOG_LEVEL=warn\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestMemoryDatabaseIsNotJoined(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paths.Database = ":memory:"
	assert.Equal(t, ":memory:", cfg.DBPath())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Signature.Height = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Paths.Database = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.FIPE.Timeout = "soon"
	assert.Error(t, cfg.Validate())
	assert.Equal(t, 15*time.Second, cfg.GetFIPETimeout())
}

func TestEnsureDirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paths.DataDir = t.TempDir()
	require.NoError(t, cfg.EnsureDirs())
	assert.DirExists(t, cfg.TempDir())
	assert.DirExists(t, cfg.LogDir())
}
