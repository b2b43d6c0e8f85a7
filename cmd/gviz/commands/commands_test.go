package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/internal/config"
)

const pieSpec = `{"chartType":"PieChart","containerId":"pie","options":{"title":"Daily","vAxis":{"title":"Hours"}},
"dataTable":[["Task","Hours"],["Work",11],["Eat",2]]}`

// sandbox isolates config lookup and the store, and returns a spec path.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvConfig, "")
	t.Setenv("GVIZ_STORE_PATH", filepath.Join(dir, "charts.db"))
	t.Chdir(dir)
	path := filepath.Join(dir, "pie.json")
	require.NoError(t, os.WriteFile(path, []byte(pieSpec), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGetAndSet(t *testing.T) {
	spec := sandbox(t)

	out, err := run(t, "get", spec, "vAxis.title")
	require.NoError(t, err)
	assert.Equal(t, "Hours\n", out)

	_, err = run(t, "set", spec, "legend.position", "bottom")
	require.NoError(t, err)
	_, err = run(t, "set", spec, "pointSize", "5", "--type", "number")
	require.NoError(t, err)
	_, err = run(t, "set", spec, "is3D", "true", "--type", "bool")
	require.NoError(t, err)
	_, err = run(t, "set", spec, "vAxis.title", "--type", "null")
	require.NoError(t, err)

	s, err := chart.ReadSpecFile(spec)
	require.NoError(t, err)
	assert.Equal(t, "bottom", s.Options.GetString("legend.position"))
	assert.Equal(t, float64(5), s.Options.GetNumber("pointSize"))
	assert.True(t, s.Options.GetBoolean("is3D"))
	assert.False(t, s.Options.Has("vAxis.title"))
	assert.NotNil(t, s.Options.GetObject("vAxis"))

	out, err = run(t, "get", spec, "pointSize", "--type", "string")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)

	_, err = run(t, "set", spec, "pointSize", "many", "--type", "number")
	assert.Error(t, err)
	_, err = run(t, "set", spec, "pointSize")
	assert.Error(t, err)
}

func TestSetOption_DateAndJSON(t *testing.T) {
	b := gviz.NewBag()
	require.NoError(t, setOption(b, "hAxis.minValue", "date", "Date(2020,0,15)"))
	require.NoError(t, setOption(b, "colors", "json", `["red","blue"]`))
	got, err := formatOption(b, "hAxis.minValue", "date")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-15T00:00:00Z", got)
	got, err = formatOption(b, "colors", "")
	require.NoError(t, err)
	assert.Equal(t, `["red","blue"]`, got)
	assert.Error(t, setOption(b, "x", "date", "soon"))
	assert.Error(t, setOption(b, "x", "weird", "1"))
}

func TestRender(t *testing.T) {
	spec := sandbox(t)
	out := filepath.Join(filepath.Dir(spec), "pie.html")
	_, err := run(t, "render", spec, "-o", out, "--title", "Report")
	require.NoError(t, err)
	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), `<div id="pie" class="gviz-chart"></div>`)
	assert.Contains(t, string(html), "<title>Report</title>")
}

func TestRender_ReportsDrawErrors(t *testing.T) {
	spec := sandbox(t)
	bad := filepath.Join(filepath.Dir(spec), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"chartType":"PieChrt","dataTable":[["a"],["b"]]}`), 0o644))
	_, err := run(t, "render", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PieChrt")
}

func TestConvert(t *testing.T) {
	spec := sandbox(t)
	out, err := run(t, "convert", spec, "--to", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "chartType: PieChart")

	tomlPath := filepath.Join(filepath.Dir(spec), "pie.toml")
	_, err = run(t, "convert", spec, "-o", tomlPath)
	require.NoError(t, err)
	s, err := chart.ReadSpecFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "Daily", s.Options.GetString("title"))
	assert.Equal(t, 2, s.DataTable.NumberOfRows())

	_, err = run(t, "convert", spec, "--to", "xml")
	assert.Error(t, err)
}

func TestStoreCommands(t *testing.T) {
	spec := sandbox(t)
	_, err := run(t, "save", "daily", spec)
	require.NoError(t, err)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "daily")
	assert.Contains(t, out, "PieChart")

	out, err = run(t, "load", "daily", "--to", "json")
	require.NoError(t, err)
	w, err := chart.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "pie", w.ContainerID())

	_, err = run(t, "delete", "daily")
	require.NoError(t, err)
	_, err = run(t, "load", "daily")
	assert.Error(t, err)
	out, err = run(t, "list")
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "daily"))
}
