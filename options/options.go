package options

import (
	"strconv"

	"github.com/reoring/gviz"
)

// Options is the typed facade over a chart's option bag. The typed accessors
// cover the common options; anything else goes through Bag.
type Options struct{ node }

// New returns options backed by a fresh bag.
func New() *Options { return Wrap(gviz.NewBag()) }

// Wrap returns a facade over b. A nil b gets a fresh bag.
func Wrap(b *gviz.Bag) *Options {
	if b == nil {
		b = gviz.NewBag()
	}
	return &Options{node{bag: b}}
}

func (o *Options) SetTitle(s string) { o.bag.SetString("title", s) }
func (o *Options) Title() string     { return o.bag.GetString("title") }

func (o *Options) SetWidth(px float64)  { o.bag.SetNumber("width", px) }
func (o *Options) Width() float64       { return o.bag.GetNumber("width") }
func (o *Options) SetHeight(px float64) { o.bag.SetNumber("height", px) }
func (o *Options) Height() float64      { return o.bag.GetNumber("height") }

func (o *Options) SetBackgroundColor(c string) { o.bag.SetString("backgroundColor", c) }
func (o *Options) BackgroundColor() string     { return o.bag.GetString("backgroundColor") }

// SetColors sets the series colors in order.
func (o *Options) SetColors(colors ...string) { o.bag.SetStrings("colors", colors...) }
func (o *Options) Colors() []string           { return o.bag.GetStrings("colors") }

func (o *Options) SetPointSize(px int) { o.bag.SetNumber("pointSize", float64(px)) }
func (o *Options) PointSize() int      { return o.bag.GetInt("pointSize") }
func (o *Options) SetLineWidth(px int) { o.bag.SetNumber("lineWidth", float64(px)) }
func (o *Options) LineWidth() int      { return o.bag.GetInt("lineWidth") }

// SetIsStacked turns plain stacking on or off.
func (o *Options) SetIsStacked(on bool) { o.bag.SetBoolean("isStacked", on) }

// SetStacked selects a stacking mode; isStacked then holds its name.
func (o *Options) SetStacked(t StackedType) { o.bag.SetString("isStacked", t.Name()) }

// Stacked reports the stacking mode. A boolean true reads as absolute
// stacking.
func (o *Options) Stacked() (StackedType, bool) {
	if o.bag.GetBoolean("isStacked") {
		return StackedAbsolute, true
	}
	return FindStackedTypeByName(o.bag.GetString("isStacked"))
}

// SetBars sets the material bar orientation.
func (o *Options) SetBars(b MaterialBarsOrientation) { o.bag.SetString("bars", b.Name()) }

func (o *Options) Bars() (MaterialBarsOrientation, bool) {
	return FindMaterialBarsOrientationByName(o.bag.GetString("bars"))
}

func (o *Options) Legend() *Legend            { return &Legend{o.child("legend")} }
func (o *Options) HAxis() *Axis               { return &Axis{o.child("hAxis")} }
func (o *Options) VAxis() *Axis               { return &Axis{o.child("vAxis")} }
func (o *Options) TitleTextStyle() *TextStyle { return &TextStyle{o.child("titleTextStyle")} }

// VAxes returns the axis at index i of a multi-axis chart.
func (o *Options) VAxes(i int) *Axis { return &Axis{o.child("vAxes").child(strconv.Itoa(i))} }

// Series returns the options of series i.
func (o *Options) Series(i int) *ScatterChartSeries {
	return &ScatterChartSeries{o.child("series").child(strconv.Itoa(i))}
}

// Legend is the facade over the legend option object.
type Legend struct{ node }

func (l *Legend) SetPosition(p LegendPosition) { l.bag.SetString(l.key("position"), p.Name()) }

func (l *Legend) Position() (LegendPosition, bool) {
	return FindLegendPositionByName(l.bag.GetString(l.key("position")))
}

func (l *Legend) SetAlignment(a string) { l.bag.SetString(l.key("alignment"), a) }
func (l *Legend) Alignment() string     { return l.bag.GetString(l.key("alignment")) }
func (l *Legend) TextStyle() *TextStyle { return &TextStyle{l.child("textStyle")} }

// Axis is the facade over hAxis, vAxis and vAxes entries.
type Axis struct{ node }

func (a *Axis) SetTitle(s string) { a.bag.SetString(a.key("title"), s) }
func (a *Axis) Title() string     { return a.bag.GetString(a.key("title")) }

// SetScaleType sets the scale; the default scale removes the option.
func (a *Axis) SetScaleType(t AxisScaleType) {
	if t == AxisScaleDefault {
		a.bag.SetNull(a.key("scaleType"))
		return
	}
	a.bag.SetString(a.key("scaleType"), t.Name())
}

func (a *Axis) ScaleType() AxisScaleType {
	t, _ := FindAxisScaleTypeByName(a.bag.GetString(a.key("scaleType")))
	return t
}

func (a *Axis) SetLogScale(on bool) { a.bag.SetBoolean(a.key("logScale"), on) }
func (a *Axis) LogScale() bool      { return a.bag.GetBoolean(a.key("logScale")) }
func (a *Axis) SetFormat(f string)  { a.bag.SetString(a.key("format"), f) }
func (a *Axis) Format() string      { return a.bag.GetString(a.key("format")) }

func (a *Axis) SetMinValue(v float64) { a.bag.SetNumber(a.key("minValue"), v) }
func (a *Axis) MinValue() float64     { return a.bag.GetNumber(a.key("minValue")) }
func (a *Axis) SetMaxValue(v float64) { a.bag.SetNumber(a.key("maxValue"), v) }
func (a *Axis) MaxValue() float64     { return a.bag.GetNumber(a.key("maxValue")) }

// SetViewWindow limits the visible range of the axis.
func (a *Axis) SetViewWindow(lo, hi float64) {
	a.bag.SetNumber(a.key("viewWindow.min"), lo)
	a.bag.SetNumber(a.key("viewWindow.max"), hi)
}

func (a *Axis) SetGridlineCount(n int) { a.bag.SetNumber(a.key("gridlines.count"), float64(n)) }
func (a *Axis) GridlineCount() int     { return a.bag.GetInt(a.key("gridlines.count"), -1) }

func (a *Axis) TextStyle() *TextStyle      { return &TextStyle{a.child("textStyle")} }
func (a *Axis) TitleTextStyle() *TextStyle { return &TextStyle{a.child("titleTextStyle")} }

// TextStyle is the facade over *TextStyle option objects.
type TextStyle struct{ node }

func (s *TextStyle) SetColor(c string)      { s.bag.SetString(s.key("color"), c) }
func (s *TextStyle) Color() string          { return s.bag.GetString(s.key("color")) }
func (s *TextStyle) SetFontName(n string)   { s.bag.SetString(s.key("fontName"), n) }
func (s *TextStyle) FontName() string       { return s.bag.GetString(s.key("fontName")) }
func (s *TextStyle) SetFontSize(px float64) { s.bag.SetNumber(s.key("fontSize"), px) }
func (s *TextStyle) FontSize() float64      { return s.bag.GetNumber(s.key("fontSize")) }
func (s *TextStyle) SetBold(on bool)        { s.bag.SetBoolean(s.key("bold"), on) }
func (s *TextStyle) Bold() bool             { return s.bag.GetBoolean(s.key("bold")) }
func (s *TextStyle) SetItalic(on bool)      { s.bag.SetBoolean(s.key("italic"), on) }
func (s *TextStyle) Italic() bool           { return s.bag.GetBoolean(s.key("italic")) }
