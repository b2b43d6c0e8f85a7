package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gviz"
)

func TestFindByName(t *testing.T) {
	s, ok := FindAxisScaleTypeByName("mirrorLog")
	assert.True(t, ok)
	assert.Equal(t, AxisScaleMirrorLog, s)

	s, ok = FindAxisScaleTypeByName("")
	assert.True(t, ok)
	assert.Equal(t, AxisScaleDefault, s)

	_, ok = FindAxisScaleTypeByName("Log")
	assert.False(t, ok)

	st, ok := FindStackedTypeByName("relative")
	assert.True(t, ok)
	assert.Equal(t, "relative", st.Name())

	o, ok := FindMaterialBarsOrientationByName("horizontal")
	assert.True(t, ok)
	assert.Equal(t, BarsHorizontal, o)

	_, ok = FindLegendPositionByName("middle")
	assert.False(t, ok)
}

func TestChartTypes(t *testing.T) {
	ct, ok := FindChartTypeByName("google.visualization.LineChart")
	require.True(t, ok)
	assert.Equal(t, LineChart, ct)
	assert.Equal(t, "corechart", ct.Package())
	assert.Equal(t, "table", Table.Package())

	_, ok = FindChartTypeByName("Spreadsheet")
	assert.False(t, ok)

	for _, ct := range ChartTypes() {
		assert.True(t, ct.Known(), ct)
	}
}

func TestSuggestChartType(t *testing.T) {
	got, ok := SuggestChartType("LineChrt")
	require.True(t, ok)
	assert.Equal(t, LineChart, got)

	got, ok = SuggestChartType("piechart")
	require.True(t, ok)
	assert.Equal(t, PieChart, got)

	_, ok = SuggestChartType("Spreadsheet")
	assert.False(t, ok)
	_, ok = SuggestChartType("")
	assert.False(t, ok)
}

func TestOptions_WritesQualifiedKeys(t *testing.T) {
	o := New()
	o.SetTitle("Company Performance")
	o.SetPointSize(5)
	o.Legend().SetPosition(LegendBottom)
	o.VAxis().SetTitle("Revenue")
	o.HAxis().TitleTextStyle().SetColor("#333")
	o.SetColors("red", "blue")

	b := o.Bag()
	assert.Equal(t, "bottom", b.GetString("legend.position"))
	assert.Equal(t, "#333", b.GetString("hAxis.titleTextStyle.color"))
	assert.Equal(t, 5.0, b.GetNumber("pointSize"))

	vAxis := b.GetObject("vAxis")
	require.NotNil(t, vAxis)
	assert.Equal(t, "Revenue", vAxis.GetString("title"))

	pos, ok := o.Legend().Position()
	assert.True(t, ok)
	assert.Equal(t, LegendBottom, pos)
	assert.Equal(t, []string{"red", "blue"}, o.Colors())
	assert.Equal(t, "Company Performance", o.Title())
}

func TestOptions_ReadsDoNotCreate(t *testing.T) {
	o := New()
	assert.Equal(t, "", o.VAxis().Title())
	assert.Equal(t, -1, o.VAxis().GridlineCount())
	assert.Nil(t, o.Legend().Bag())
	assert.Equal(t, 0, o.Bag().Len())
}

func TestAxis_ScaleType(t *testing.T) {
	o := New()
	o.VAxis().SetScaleType(AxisScaleLog)
	assert.Equal(t, AxisScaleLog, o.VAxis().ScaleType())
	o.VAxis().SetScaleType(AxisScaleDefault)
	assert.False(t, o.Bag().Has("vAxis.scaleType"))
	assert.Equal(t, AxisScaleDefault, o.VAxis().ScaleType())

	o.VAxes(1).SetViewWindow(0, 10)
	assert.Equal(t, 10.0, o.Bag().GetNumber("vAxes.1.viewWindow.max"))
}

func TestStacked(t *testing.T) {
	o := New()
	_, ok := o.Stacked()
	assert.False(t, ok)

	o.SetIsStacked(true)
	st, ok := o.Stacked()
	assert.True(t, ok)
	assert.Equal(t, StackedAbsolute, st)

	o.SetStacked(StackedPercent)
	st, _ = o.Stacked()
	assert.Equal(t, StackedPercent, st)

	o.SetBars(BarsHorizontal)
	bars, ok := o.Bars()
	assert.True(t, ok)
	assert.Equal(t, BarsHorizontal, bars)
}

func TestScatterChartSeries(t *testing.T) {
	b := gviz.NewBag()
	o := Wrap(b)
	s := o.Series(0)
	assert.True(t, s.VisibleInLegend())

	s.SetColor("green")
	s.SetLineWidth(2)
	s.SetPointSize(7)
	s.SetVisibleInLegend(false)

	assert.Equal(t, `{"series":{"0":{"color":"green","lineWidth":2,"pointSize":7,"visibleInLegend":false}}}`, b.ToJSON())
	assert.Equal(t, 7, o.Series(0).PointSize())
	assert.Equal(t, 2, s.LineWidth())
	assert.False(t, s.VisibleInLegend())
	assert.Equal(t, "green", s.Color())
}
