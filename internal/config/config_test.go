package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yusen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: badger
  badger_dir: /tmp/slots
log:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/slots", cfg.Storage.BadgerDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("YUSEN_DB", "/data/demo.db")
	t.Setenv("YUSEN_HTTP_ADDR", "0.0.0.0:9090")
	t.Setenv("YUSEN_GRPC_ADDR", "0.0.0.0:9091")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/demo.db", cfg.Storage.SQLite)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "0.0.0.0:9091", cfg.Server.GRPCAddr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"backend": "storage:\n  backend: redis\n",
		"level":   "log:\n  level: loud\n",
		"addr":    "server:\n  http_addr: nope\n",
		"badger":  "storage:\n  backend: badger\n  badger_dir: \"\"\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("storage: [1, 2"), 0644))
	_, err := Load(bad)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Export.Dir = "/srv/exports"
	require.NoError(t, Write(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
