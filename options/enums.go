// Package options provides the enums used in chart options and thin typed
// facades over a *gviz.Bag. Facades hold no state of their own: every setter
// writes a qualified key into the bag, so typed and untyped access mix freely.
package options

// AxisScaleType selects the axis scale. The zero value is the linear default
// and serializes as an absent option.
type AxisScaleType string

const (
	AxisScaleDefault   AxisScaleType = ""
	AxisScaleLog       AxisScaleType = "log"
	AxisScaleMirrorLog AxisScaleType = "mirrorLog"
)

func (t AxisScaleType) Name() string { return string(t) }

// FindAxisScaleTypeByName returns the scale type with the given name. The
// empty name is the default scale.
func FindAxisScaleTypeByName(name string) (AxisScaleType, bool) {
	return find(name, AxisScaleDefault, AxisScaleLog, AxisScaleMirrorLog)
}

// StackedType controls how stacked series are summed.
type StackedType string

const (
	StackedPercent  StackedType = "percent"
	StackedRelative StackedType = "relative"
	StackedAbsolute StackedType = "absolute"
)

func (t StackedType) Name() string { return string(t) }

func FindStackedTypeByName(name string) (StackedType, bool) {
	return find(name, StackedPercent, StackedRelative, StackedAbsolute)
}

// MaterialBarsOrientation is the bar direction of material bar charts.
type MaterialBarsOrientation string

const (
	BarsVertical   MaterialBarsOrientation = "vertical"
	BarsHorizontal MaterialBarsOrientation = "horizontal"
)

func (o MaterialBarsOrientation) Name() string { return string(o) }

func FindMaterialBarsOrientationByName(name string) (MaterialBarsOrientation, bool) {
	return find(name, BarsVertical, BarsHorizontal)
}

// LegendPosition places the legend.
type LegendPosition string

const (
	LegendBottom  LegendPosition = "bottom"
	LegendLeft    LegendPosition = "left"
	LegendIn      LegendPosition = "in"
	LegendNone    LegendPosition = "none"
	LegendRight   LegendPosition = "right"
	LegendTop     LegendPosition = "top"
	LegendLabeled LegendPosition = "labeled"
)

func (p LegendPosition) Name() string { return string(p) }

func FindLegendPositionByName(name string) (LegendPosition, bool) {
	return find(name, LegendBottom, LegendLeft, LegendIn, LegendNone, LegendRight, LegendTop, LegendLabeled)
}

// find is the shared lookup behind the Find*ByName functions; names match
// exactly.
func find[E ~string](name string, all ...E) (E, bool) {
	for _, e := range all {
		if string(e) == name {
			return e, true
		}
	}
	var zero E
	return zero, false
}
