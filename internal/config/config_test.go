package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	chdirTemp(t)
	_, err := Load(nil)
	assert.Error(t, err)
}

func TestLoadReadsTOML(t *testing.T) {
	dir := chdirTemp(t)
	toml := "bind = \"0.0.0.0:9000\"\nmax_connections = 42\nlog_config_path = \"/tmp/zap.json\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "echors.toml"), []byte(toml), 0o644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Bind)
	assert.Equal(t, uint16(42), cfg.MaxConnections)
	assert.Equal(t, "/tmp/zap.json", cfg.LogConfigPath)
}

func TestValidateRejectsZeroMaxConnections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConnections = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyBind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bind = ""
	assert.Error(t, cfg.Validate())
}
