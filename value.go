package gviz

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/reoring/gviz/internal/datelit"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindDate
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Value is an immutable tagged variant. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	obj  *Bag
	list []Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number. All numbers are float64, as in the browser runtime.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Date wraps a point in time.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Object wraps a nested bag. A nil bag yields null.
func Object(b *Bag) Value {
	if b == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: b}
}

// List wraps an ordered list of values.
func List(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindList, list: cp}
}

// Strings is a convenience for a list of strings.
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{kind: KindList, list: vs}
}

// Numbers is a convenience for a list of numbers.
func Numbers(ns ...float64) Value {
	vs := make([]Value, len(ns))
	for i, n := range ns {
		vs[i] = Number(n)
	}
	return Value{kind: KindList, list: vs}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsDate returns the date held by v. A string holding a date literal or an
// RFC3339 timestamp is accepted as well.
func (v Value) AsDate() (time.Time, bool) {
	switch v.kind {
	case KindDate:
		return v.t, true
	case KindString:
		if t, ok := datelit.Parse(v.s); ok {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339Nano, v.s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AsObject returns the nested bag. The bag is shared, not copied.
func (v Value) AsObject() (*Bag, bool) { return v.obj, v.kind == KindObject }

// AsList returns a copy of the list elements.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Len returns the number of elements of a list or entries of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return v.obj.Len()
	}
	return 0
}

// Clone returns a deep copy; nested bags and lists are not shared.
func (v Value) Clone() Value {
	switch v.kind {
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	case KindList:
		vs := make([]Value, len(v.list))
		for i, e := range v.list {
			vs[i] = e.Clone()
		}
		return Value{kind: KindList, list: vs}
	}
	return v
}

// Equal reports deep equality. Dates compare by instant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n || (math.IsNaN(v.n) && math.IsNaN(o.n))
	case KindString:
		return v.s == o.s
	case KindDate:
		return v.t.Equal(o.t)
	case KindObject:
		return v.obj.Equal(o.obj)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Any converts v into plain Go values: nil, bool, float64, string, time.Time,
// map[string]any or []any.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindDate:
		return v.t
	case KindObject:
		return v.obj.ToMap()
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Any()
		}
		return out
	}
	return nil
}

// String renders scalars the way a table cell would display them.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindDate:
		return datelit.Format(v.t)
	case KindObject:
		return v.obj.ToJSON()
	default:
		return fmt.Sprint(v.Any())
	}
}

// wire returns the JSON-ready form: dates become literals and non-finite
// numbers become null so encoding never fails.
func (v Value) wire() any {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return nil
		}
		return v.n
	case KindDate:
		return datelit.Format(v.t)
	case KindObject:
		return v.obj.wire()
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.wire()
		}
		return out
	}
	return v.Any()
}

// FromAny converts a plain Go value into a Value. Maps with string keys become
// bags, slices and arrays become lists, time.Time becomes a date and every
// integer or float kind becomes a number. Unsupported values are rendered with
// fmt as strings.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case *Bag:
		return Object(t)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	case time.Time:
		return Date(t)
	case *time.Time:
		if t == nil {
			return Null()
		}
		return Date(*t)
	case []Value:
		return List(t...)
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = FromAny(e)
		}
		return Value{kind: KindList, list: vs}
	case map[string]any:
		b := NewBag()
		for k, e := range t {
			b.put(k, FromAny(e))
		}
		return Object(b)
	case map[any]any:
		b := NewBag()
		for k, e := range t {
			b.put(fmt.Sprint(k), FromAny(e))
		}
		return Object(b)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		vs := make([]Value, rv.Len())
		for i := range vs {
			vs[i] = FromAny(rv.Index(i).Interface())
		}
		return Value{kind: KindList, list: vs}
	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		b := NewBag()
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
		for _, k := range keys {
			b.put(fmt.Sprint(k.Interface()), FromAny(rv.MapIndex(k).Interface()))
		}
		return Object(b)
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Invalid:
		return Null()
	}
	return String(fmt.Sprint(rv.Interface()))
}

// fromWire converts a decoded JSON/YAML tree back into a Value, turning date
// literals into dates.
func fromWire(x any) Value {
	switch t := x.(type) {
	case string:
		if d, ok := datelit.Parse(t); ok {
			return Date(d)
		}
		return String(t)
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = fromWire(e)
		}
		return Value{kind: KindList, list: vs}
	case map[string]any:
		return Object(bagFromWire(t))
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = e
		}
		return Object(bagFromWire(m))
	}
	return FromAny(x)
}

func bagFromWire(m map[string]any) *Bag {
	b := NewBag()
	for k, e := range m {
		b.put(k, fromWire(e))
	}
	return b
}
