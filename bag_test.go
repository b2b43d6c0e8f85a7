package gviz

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestBag_TypedRoundTrip(t *testing.T) {
	b := NewBag()
	when := time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC)
	b.SetBoolean("isStacked", true)
	b.SetNumber("pointSize", 5)
	b.SetString("title", "Sales")
	b.SetDate("hAxis.viewWindow.min", when)

	if !b.GetBoolean("isStacked") {
		t.Fatalf("isStacked: want true")
	}
	if got := b.GetNumber("pointSize"); got != 5 {
		t.Fatalf("pointSize: got %v", got)
	}
	if got := b.GetString("title"); got != "Sales" {
		t.Fatalf("title: got %q", got)
	}
	if got := b.GetDate("hAxis.viewWindow.min"); !got.Equal(when) {
		t.Fatalf("date: got %v", got)
	}
}

func TestBag_DefaultsOnMiss(t *testing.T) {
	b := NewBag()
	if b.GetBoolean("missing") {
		t.Fatalf("zero bool expected")
	}
	if got := b.GetNumber("missing", 42); got != 42 {
		t.Fatalf("default number: got %v", got)
	}
	if got := b.GetString("a.b.c", "x"); got != "x" {
		t.Fatalf("default string: got %q", got)
	}
	if got := b.GetObject("missing"); got != nil {
		t.Fatalf("nil bag expected")
	}
	if !b.GetDate("missing").IsZero() {
		t.Fatalf("zero time expected")
	}
}

func TestBag_KindMismatchYieldsDefault(t *testing.T) {
	b := NewBag()
	b.SetString("width", "wide")
	if got := b.GetNumber("width", 7); got != 7 {
		t.Fatalf("mismatch should return default, got %v", got)
	}
	if got := b.GetBoolean("width"); got {
		t.Fatalf("mismatch should return false")
	}
	// a leaf is not a bag
	if got := b.GetString("width.inner", "d"); got != "d" {
		t.Fatalf("walk through leaf: got %q", got)
	}
}

func TestBag_SetNullKeepsIntermediates(t *testing.T) {
	b := NewBag()
	b.SetString("vAxis.title", "Y")
	b.SetNull("vAxis.title")

	if b.Has("vAxis.title") {
		t.Fatalf("leaf should be gone")
	}
	vAxis := b.GetObject("vAxis")
	if vAxis == nil {
		t.Fatalf("intermediate bag should remain")
	}
	if vAxis.Len() != 0 {
		t.Fatalf("intermediate should be empty, got %d entries", vAxis.Len())
	}
	if got := b.ToJSON(); got != `{"vAxis":{}}` {
		t.Fatalf("json: %s", got)
	}
}

func TestBag_SetNullOnMissingPathCreatesNothing(t *testing.T) {
	b := NewBag()
	b.SetNull("a.b.c")
	if b.Len() != 0 {
		t.Fatalf("unexpected entries: %s", b.ToJSON())
	}
}

func TestBag_EmptyKeyIsNoop(t *testing.T) {
	b := NewBag()
	for _, k := range []string{"", ".", "a..b", ".a", "a."} {
		b.SetString(k, "x")
		if got := b.GetString(k, "def"); got != "def" {
			t.Fatalf("key %q: got %q", k, got)
		}
	}
	if b.Len() != 0 {
		t.Fatalf("writes should be ignored, got %s", b.ToJSON())
	}
}

func TestBag_WriteThroughLeafReplacesIt(t *testing.T) {
	b := NewBag()
	b.SetString("legend", "none")
	b.SetString("legend.position", "bottom")
	if got := b.GetString("legend.position"); got != "bottom" {
		t.Fatalf("got %q", got)
	}
	if _, ok := b.Value("legend"); !ok {
		t.Fatalf("legend should exist")
	}
	if b.GetObject("legend") == nil {
		t.Fatalf("legend should now be a bag")
	}
}

func TestBag_SetObjectByReference(t *testing.T) {
	b := NewBag()
	title := NewBag()
	title.SetString("text", "Y")
	b.SetObject("vAxis.title", title)

	title.SetString("color", "red")
	if got := b.GetString("vAxis.title.color"); got != "red" {
		t.Fatalf("later changes should be visible, got %q", got)
	}
	if b.GetObject("vAxis.title") != title {
		t.Fatalf("GetObject should return the stored bag")
	}
}

func TestBag_SetObjectRefusesCycle(t *testing.T) {
	a := NewBag()
	child := NewBag()
	a.SetObject("child", child)
	child.SetObject("parent", a)
	if child.Has("parent") {
		t.Fatalf("cycle should have been refused")
	}
	a.SetObject("self", a)
	if a.Has("self") {
		t.Fatalf("self reference should have been refused")
	}
}

func TestBag_SetObjectRefusesNestedCycle(t *testing.T) {
	b := NewBag()
	b.SetString("a.t", "x")
	b.SetObject("a.self", b.GetObject("a"))
	if b.Has("a.self") {
		t.Fatalf("bag stored inside itself")
	}

	// an ancestor further up the path, reached through a missing segment
	holder := NewBag()
	holder.SetObject("inner", b.GetObject("a"))
	b.SetObject("a.fresh.loop", holder)
	if b.Has("a.fresh.loop") {
		t.Fatalf("cycle through an ancestor should have been refused")
	}

	b.SetList("a.items", Number(1), Object(b.GetObject("a")))
	if b.Has("a.items") {
		t.Fatalf("list referring to its parent should have been refused")
	}

	// the bag is still a tree
	c := b.Clone()
	if !c.Equal(b) || c.ToJSON() != `{"a":{"t":"x"}}` {
		t.Fatalf("unexpected content %s", c.ToJSON())
	}

	// sharing a bag that is not an ancestor is fine
	shared := NewBag()
	shared.SetString("color", "red")
	b.SetObject("hAxis.textStyle", shared)
	b.SetObject("vAxis.textStyle", shared)
	if b.GetString("vAxis.textStyle.color") != "red" || b.GetString("hAxis.textStyle.color") != "red" {
		t.Fatalf("shared bag not stored twice")
	}
}

func TestBag_ZeroValueIsUsable(t *testing.T) {
	var b Bag
	b.SetString("legend.position", "bottom")
	if got := b.GetString("legend.position"); got != "bottom" {
		t.Fatalf("got %q", got)
	}

	z := &Bag{}
	z.SetNumber("pointSize", 3)
	z.Merge(BagFromMap(map[string]any{"lineWidth": 2}))
	if z.GetNumber("pointSize") != 3 || z.GetNumber("lineWidth") != 2 {
		t.Fatalf("unexpected content %s", z.ToJSON())
	}

	var m Bag
	m.Merge(BagFromMap(map[string]any{"title": "t"}))
	if m.GetString("title") != "t" {
		t.Fatalf("merge into zero bag lost entries")
	}
}

func TestBag_DateLiteralStringReadsBackAsDate(t *testing.T) {
	b := NewBag()
	b.SetString("title", "Date(2020,0,1)")
	back, err := ParseJSON([]byte(b.ToJSON()))
	if err != nil {
		t.Fatal(err)
	}
	if got := back.GetString("title", "none"); got != "none" {
		t.Fatalf("string form should not survive, got %q", got)
	}
	want := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := back.GetDate("title"); !got.Equal(want) {
		t.Fatalf("got %v", got)
	}
}

func TestBag_CloneIsIndependent(t *testing.T) {
	b := NewBag()
	b.SetString("legend.position", "bottom")
	b.SetList("colors", String("red"), String("blue"))

	c := b.Clone()
	c.SetString("legend.position", "top")
	c.SetNumber("pointSize", 3)

	if got := b.GetString("legend.position"); got != "bottom" {
		t.Fatalf("original changed: %q", got)
	}
	if b.Has("pointSize") {
		t.Fatalf("original gained a key")
	}
	if !b.Equal(b.Clone()) {
		t.Fatalf("clone should equal original")
	}
}

func TestBag_ToJSONDeterministic(t *testing.T) {
	b := NewBag()
	b.SetNumber("pointSize", 5)
	b.SetString("legend.position", "bottom")
	want := `{"legend":{"position":"bottom"},"pointSize":5}`
	for i := 0; i < 5; i++ {
		if got := b.ToJSON(); got != want {
			t.Fatalf("got %s want %s", got, want)
		}
	}
}

func TestBag_SerializeParseScenario(t *testing.T) {
	b := NewBag()
	b.SetNumber("pointSize", 5)
	b.SetString("legend.position", "bottom")
	b.SetDate("start", time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC))

	js := b.ToJSON()
	if !strings.Contains(js, `"start":"Date(2020,0,15)"`) {
		t.Fatalf("date literal missing: %s", js)
	}
	got, err := ParseJSON([]byte(js))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(b) {
		t.Fatalf("round trip mismatch: %s vs %s", got.ToJSON(), js)
	}
	if got.GetNumber("pointSize") != 5 || got.GetString("legend.position") != "bottom" {
		t.Fatalf("unexpected values: %s", got.ToJSON())
	}
}

func TestBag_NonFiniteNumbersSerializeAsNull(t *testing.T) {
	b := NewBag()
	b.SetNumber("nan", math.NaN())
	b.SetList("l", Number(math.Inf(1)), Number(1))
	if got := b.ToJSON(); got != `{"l":[null,1],"nan":null}` {
		t.Fatalf("got %s", got)
	}
}

func TestBag_NilIsReadOnly(t *testing.T) {
	var b *Bag
	b.SetString("a", "x")
	if b.GetString("a", "d") != "d" || b.Len() != 0 || b.ToJSON() != "{}" {
		t.Fatalf("nil bag should behave as empty")
	}
}

func TestBag_MergeOverlay(t *testing.T) {
	b := NewBag()
	b.SetString("legend.position", "bottom")
	b.SetString("legend.alignment", "center")
	o := NewBag()
	o.SetString("legend.position", "top")
	o.SetNumber("width", 400)

	b.Merge(o)
	if b.GetString("legend.position") != "top" || b.GetString("legend.alignment") != "center" {
		t.Fatalf("merge: %s", b.ToJSON())
	}
	if b.GetNumber("width") != 400 {
		t.Fatalf("merge width: %s", b.ToJSON())
	}
}

func TestBag_PathsAndKeys(t *testing.T) {
	b := NewBag()
	b.SetString("z", "1")
	b.SetString("a.c", "2")
	b.SetString("a.b", "3")
	if got := strings.Join(b.Keys(), ","); got != "a,z" {
		t.Fatalf("keys: %s", got)
	}
	if got := strings.Join(b.Paths(), ","); got != "a.b,a.c,z" {
		t.Fatalf("paths: %s", got)
	}
}

func TestBag_GetDateCoercesStrings(t *testing.T) {
	b := NewBag()
	b.SetString("lit", "Date(2020, 4, 1, 12, 30, 0)")
	b.SetString("rfc", "2020-05-01T12:30:00Z")
	want := time.Date(2020, time.May, 1, 12, 30, 0, 0, time.UTC)
	if got := b.GetDate("lit"); !got.Equal(want) {
		t.Fatalf("literal: %v", got)
	}
	if got := b.GetDate("rfc"); !got.Equal(want) {
		t.Fatalf("rfc3339: %v", got)
	}
}

func TestBagFromMap(t *testing.T) {
	b := BagFromMap(map[string]any{
		"width":  640,
		"colors": []string{"red", "green"},
		"legend": map[string]any{"position": "none"},
		"gone":   nil,
	})
	if b.GetNumber("width") != 640 {
		t.Fatalf("width: %s", b.ToJSON())
	}
	if got := b.GetStrings("colors"); len(got) != 2 || got[1] != "green" {
		t.Fatalf("colors: %v", got)
	}
	if b.GetString("legend.position") != "none" {
		t.Fatalf("legend: %s", b.ToJSON())
	}
	if b.Has("gone") {
		t.Fatalf("nulls are not stored")
	}
}

func TestBag_YAMLRoundTrip(t *testing.T) {
	b := NewBag()
	b.SetString("title", "Sales")
	b.SetNumber("vAxis.minValue", 0)
	b.SetDate("start", time.Date(2020, time.June, 1, 8, 0, 0, 0, time.UTC))
	b.SetStrings("colors", "red", "blue")

	out, err := b.ToYAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	got, err := ParseYAML(out)
	if err != nil {
		t.Fatalf("parse yaml: %v\n%s", err, out)
	}
	if !got.Equal(b) {
		t.Fatalf("yaml round trip mismatch:\n%s", out)
	}
}

func TestBag_TOMLRoundTrip(t *testing.T) {
	b := NewBag()
	b.SetString("title", "Sales")
	b.SetNumber("vAxis.minValue", 2)
	b.SetDate("start", time.Date(2020, time.June, 1, 8, 0, 0, 0, time.UTC))
	b.SetBoolean("legend.visible", false)

	out, err := b.ToTOML()
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	got, err := ParseTOML(out)
	if err != nil {
		t.Fatalf("parse toml: %v\n%s", err, out)
	}
	if !got.Equal(b) {
		t.Fatalf("toml round trip mismatch:\n%s\n%s", out, got.ToJSON())
	}
}

func TestParseTOML_LocalDate(t *testing.T) {
	b, err := ParseTOML([]byte("start = 2021-02-03\nn = 4\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := b.GetDate("start"); !got.Equal(time.Date(2021, time.February, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("local date: %v", got)
	}
	if b.GetNumber("n") != 4 {
		t.Fatalf("integers become numbers")
	}
}

func TestParseJSON_RejectsNonObject(t *testing.T) {
	_, err := ParseJSON([]byte(`[1,2]`))
	iss, ok := AsIssues(err)
	if !ok || iss[0].Code != CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", err)
	}
}

func TestParseJSON_EmptyInput(t *testing.T) {
	_, err := ParseJSON(nil)
	iss, ok := AsIssues(err)
	if !ok || iss[0].Code != CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}
