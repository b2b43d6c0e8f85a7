package options

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ChartType is a chart class name of the browser library.
type ChartType string

const (
	AnnotationChart  ChartType = "AnnotationChart"
	AreaChart        ChartType = "AreaChart"
	BarChart         ChartType = "BarChart"
	BubbleChart      ChartType = "BubbleChart"
	Calendar         ChartType = "Calendar"
	CandlestickChart ChartType = "CandlestickChart"
	ColumnChart      ChartType = "ColumnChart"
	ComboChart       ChartType = "ComboChart"
	GanttChart       ChartType = "Gantt"
	Gauge            ChartType = "Gauge"
	GeoChart         ChartType = "GeoChart"
	Histogram        ChartType = "Histogram"
	LineChart        ChartType = "LineChart"
	Map              ChartType = "Map"
	OrgChart         ChartType = "OrgChart"
	PieChart         ChartType = "PieChart"
	Sankey           ChartType = "Sankey"
	ScatterChart     ChartType = "ScatterChart"
	SteppedAreaChart ChartType = "SteppedAreaChart"
	Table            ChartType = "Table"
	Timeline         ChartType = "Timeline"
	TreeMap          ChartType = "TreeMap"
	WordTree         ChartType = "WordTree"
)

// chartPackages maps chart types to the loader package that defines them.
var chartPackages = map[ChartType]string{
	AnnotationChart:  "annotationchart",
	AreaChart:        "corechart",
	BarChart:         "corechart",
	BubbleChart:      "corechart",
	Calendar:         "calendar",
	CandlestickChart: "corechart",
	ColumnChart:      "corechart",
	ComboChart:       "corechart",
	GanttChart:       "gantt",
	Gauge:            "gauge",
	GeoChart:         "geochart",
	Histogram:        "corechart",
	LineChart:        "corechart",
	Map:              "map",
	OrgChart:         "orgchart",
	PieChart:         "corechart",
	Sankey:           "sankey",
	ScatterChart:     "corechart",
	SteppedAreaChart: "corechart",
	Table:            "table",
	Timeline:         "timeline",
	TreeMap:          "treemap",
	WordTree:         "wordtree",
}

func (t ChartType) Name() string { return string(t) }

// Package returns the loader package of t, or "" for unknown types.
func (t ChartType) Package() string { return chartPackages[t] }

// Known reports whether t is one of the listed chart types.
func (t ChartType) Known() bool {
	_, ok := chartPackages[t]
	return ok
}

// ChartTypes returns every known chart type in name order.
func ChartTypes() []ChartType {
	return []ChartType{
		AnnotationChart, AreaChart, BarChart, BubbleChart, Calendar, CandlestickChart,
		ColumnChart, ComboChart, GanttChart, Gauge, GeoChart, Histogram, LineChart, Map,
		OrgChart, PieChart, Sankey, ScatterChart, SteppedAreaChart, Table, Timeline,
		TreeMap, WordTree,
	}
}

// FindChartTypeByName returns the chart type with the given class name. The
// "google.visualization." prefix is accepted.
func FindChartTypeByName(name string) (ChartType, bool) {
	name = strings.TrimPrefix(name, "google.visualization.")
	t := ChartType(name)
	return t, t.Known()
}

// SuggestChartType proposes the known chart type closest to name, ignoring
// case. ok is false when nothing is close enough to be a plausible typo.
func SuggestChartType(name string) (ChartType, bool) {
	name = strings.ToLower(strings.TrimPrefix(name, "google.visualization."))
	if name == "" {
		return "", false
	}
	best, bestDist := ChartType(""), -1
	for _, t := range ChartTypes() {
		d := levenshtein.ComputeDistance(name, strings.ToLower(string(t)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = t, d
		}
	}
	if float64(bestDist)/float64(max(len(name), len(best))) >= 0.4 {
		return "", false
	}
	return best, true
}
