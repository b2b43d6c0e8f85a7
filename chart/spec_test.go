package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/datatable"
)

func TestSpec_ToBagDataSource(t *testing.T) {
	s := Spec{
		ChartType:       "Table",
		ContainerID:     "t1",
		DataSourceURL:   "https://example.com/tq",
		Query:           "select A",
		RefreshInterval: 30,
	}
	b, err := s.ToBag()
	require.NoError(t, err)
	assert.Equal(t, []string{"chartType", "containerId", "dataSourceUrl", "options", "query", "refreshInterval"}, b.Keys())
	assert.Equal(t, 0, b.GetObject("options").Len())

	back, err := SpecFromBag(b)
	require.NoError(t, err)
	assert.Equal(t, 30, back.RefreshInterval)
	assert.Equal(t, "select A", back.Query)
	assert.Nil(t, back.DataTable)
}

func TestSpec_CloneIsDeep(t *testing.T) {
	s := Spec{Options: gviz.NewBag(), DataTable: salesTable(t)}
	s.Options.SetString("title", "x")
	c := s.Clone()
	c.Options.SetString("title", "y")
	require.NoError(t, c.DataTable.SetValue(0, 1, 1))
	assert.Equal(t, "x", s.Options.GetString("title"))
	assert.Equal(t, float64(1000), s.DataTable.Value(0, 1).Any())
}

func TestSpec_NilViewsDropped(t *testing.T) {
	s := Spec{Views: []*datatable.View{nil, datatable.NewView().SetRows(0), nil}}
	assert.Len(t, s.Clone().Views, 1)

	b, err := s.ToBag()
	require.NoError(t, err)
	view := b.GetObject("view")
	require.NotNil(t, view, "a single remaining view is written as an object")
	assert.Len(t, view.GetList("rows"), 1)
}

func TestParseSpec_Errors(t *testing.T) {
	_, err := ParseSpec([]byte(`{"dataTable":42}`))
	assert.Error(t, err)
	_, err = ParseSpec([]byte(`{"view":"nope"}`))
	assert.Error(t, err)
	_, err = ParseSpec([]byte(`[1]`))
	assert.Error(t, err)
}
