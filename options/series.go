package options

// ScatterChartSeries is the facade over one entry of the series option of a
// scatter chart. The same keys apply to line and area series.
type ScatterChartSeries struct{ node }

func (s *ScatterChartSeries) SetColor(c string) { s.bag.SetString(s.key("color"), c) }
func (s *ScatterChartSeries) Color() string     { return s.bag.GetString(s.key("color")) }

func (s *ScatterChartSeries) SetLineWidth(width int) {
	s.bag.SetNumber(s.key("lineWidth"), float64(width))
}

func (s *ScatterChartSeries) LineWidth() int { return s.bag.GetInt(s.key("lineWidth")) }

func (s *ScatterChartSeries) SetPointSize(size int) {
	s.bag.SetNumber(s.key("pointSize"), float64(size))
}

func (s *ScatterChartSeries) PointSize() int { return s.bag.GetInt(s.key("pointSize")) }

func (s *ScatterChartSeries) SetVisibleInLegend(visible bool) {
	s.bag.SetBoolean(s.key("visibleInLegend"), visible)
}

// VisibleInLegend defaults to true, as in the browser library.
func (s *ScatterChartSeries) VisibleInLegend() bool {
	return s.bag.GetBoolean(s.key("visibleInLegend"), true)
}
