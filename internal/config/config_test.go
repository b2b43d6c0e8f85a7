package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 30*time.Second, c.DataSource.Timeout)
	assert.Equal(t, []string{"corechart"}, c.Render.Packages)
	assert.True(t, c.Render.Bridge)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gviz.toml")
	content := `
language = "ja"

[server]
addr = ":9090"
spec_dir = "/srv/charts"
watch = true

[datasource]
timeout = "5s"

[render]
packages = ["corechart", "table"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, "/srv/charts", c.Server.SpecDir)
	assert.True(t, c.Server.Watch)
	assert.Equal(t, 5*time.Second, c.DataSource.Timeout)
	assert.Equal(t, []string{"corechart", "table"}, c.Render.Packages)
	assert.Equal(t, "ja", c.Language)
	// untouched keys keep their defaults
	assert.Equal(t, time.Second, c.DataSource.MinInterval)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  json: true\n  level: debug\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GVIZ_SERVER_ADDR", ":7000")
	t.Setenv("GVIZ_STORE_PATH", "/tmp/x.db")
	t.Setenv(EnvConfig, "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, "/tmp/x.db", c.Store.Path)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
