package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gviz"
)

func TestSpecFile_AllFormats(t *testing.T) {
	dir := t.TempDir()
	s := Spec{
		ChartType:   "LineChart",
		ContainerID: "c1",
		Options:     gviz.NewBag(),
		DataTable:   salesTable(t),
	}
	s.Options.SetString("vAxis.title", "Sales")
	s.Options.SetNumber("pointSize", 5)

	for _, name := range []string{"a.json", "a.yaml", "a.yml", "a.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteSpecFile(path, s))
			back, err := ReadSpecFile(path)
			require.NoError(t, err)
			assert.Equal(t, "LineChart", back.ChartType)
			assert.Equal(t, "Sales", back.Options.GetString("vAxis.title"))
			assert.Equal(t, float64(5), back.Options.GetNumber("pointSize"))
			require.NotNil(t, back.DataTable)
			assert.Equal(t, 3, back.DataTable.NumberOfRows())
		})
	}
}

func TestReadSpecFile_YAMLByHand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`chartType: PieChart
containerId: pie
options:
  title: Daily activities
  legend:
    position: bottom
dataTable:
  - [Task, Hours]
  - [Work, 11]
  - [Sleep, 7]
`), 0o644))
	s, err := ReadSpecFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bottom", s.Options.GetString("legend.position"))
	assert.Equal(t, 2, s.DataTable.NumberOfRows())
}

func TestReadSpecFile_UnknownExtension(t *testing.T) {
	_, err := ReadSpecFile("chart.xml")
	assert.Error(t, err)
	_, ok := FindFormatByName("yml")
	assert.True(t, ok)
}
