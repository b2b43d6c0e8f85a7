package gviz

import (
	"sort"
	"strings"
	"time"
)

// Bag is a nested property store. Keys passed to the typed accessors are
// qualified: "legend.textStyle.color" walks the legend and textStyle bags
// before addressing color.
//
// Writes create missing intermediate bags and replace any non-bag value found
// on the way. Writing null (SetNull, or SetValue with a null Value) removes the
// leaf and leaves intermediate bags in place. An empty key or a key with an
// empty segment ("a..b", ".a") is ignored by writers and answers the default
// for readers.
//
// Reads never fail. A missing entry, a non-bag intermediate or a leaf of the
// wrong kind yields the default passed by the caller, or the zero value of the
// requested type.
//
// Storing a bag or a list that would make a bag reachable from itself is
// ignored, so every Bag stays a tree and traversals terminate.
//
// Strings that match the date literal form ("Date(2020,0,1)") are written
// as that literal and read back as dates, following the browser library's
// wire convention. Such a string does not survive a serialization round trip
// as a string: GetString answers the default and GetDate the date.
//
// A Bag is owned by a single caller and is not safe for concurrent mutation.
// The zero Bag is empty and ready to use. The nil *Bag behaves as an empty,
// read-only bag.
type Bag struct {
	entries map[string]Value
}

// NewBag returns an empty bag.
func NewBag() *Bag { return &Bag{entries: make(map[string]Value)} }

// BagFromMap builds a bag from plain Go values (see FromAny).
func BagFromMap(m map[string]any) *Bag {
	b := NewBag()
	for k, v := range m {
		b.put(k, FromAny(v))
	}
	return b
}

// splitKey breaks a qualified key into segments; ok is false for keys with an
// empty segment.
func splitKey(key string) ([]string, bool) {
	if key == "" {
		return nil, false
	}
	segs := strings.Split(key, ".")
	for _, s := range segs {
		if s == "" {
			return nil, false
		}
	}
	return segs, true
}

// put stores v directly under k (no path handling). Nulls are not stored.
func (b *Bag) put(k string, v Value) {
	if v.kind == KindNull {
		delete(b.entries, k)
		return
	}
	if b.entries == nil {
		b.entries = make(map[string]Value)
	}
	b.entries[k] = v
}

// parent returns the bag holding the leaf of segs. With create set, missing or
// non-bag intermediates are replaced by new bags.
func (b *Bag) parent(segs []string, create bool) *Bag {
	cur := b
	if create && cur.entries == nil {
		cur.entries = make(map[string]Value)
	}
	for _, s := range segs[:len(segs)-1] {
		v, ok := cur.entries[s]
		if ok && v.kind == KindObject {
			cur = v.obj
			continue
		}
		if !create {
			return nil
		}
		next := NewBag()
		cur.entries[s] = Object(next)
		cur = next
	}
	return cur
}

// Value returns the raw value at key and whether it is present.
func (b *Bag) Value(key string) (Value, bool) {
	if b == nil {
		return Value{}, false
	}
	segs, ok := splitKey(key)
	if !ok {
		return Value{}, false
	}
	p := b.parent(segs, false)
	if p == nil {
		return Value{}, false
	}
	v, ok := p.entries[segs[len(segs)-1]]
	return v, ok
}

// Has reports whether key resolves to a stored value.
func (b *Bag) Has(key string) bool {
	_, ok := b.Value(key)
	return ok
}

// SetValue stores v at key. A null value unsets the key.
func (b *Bag) SetValue(key string, v Value) {
	if b == nil {
		return
	}
	if v.kind == KindNull {
		b.SetNull(key)
		return
	}
	segs, ok := splitKey(key)
	if !ok {
		return
	}
	if b.wouldCycle(segs, v) {
		return
	}
	b.parent(segs, true).entries[segs[len(segs)-1]] = v
}

// wouldCycle reports whether storing v under segs makes one of the bags on
// the path reachable from v. Bags created for missing segments are new and
// cannot be referenced by v.
func (b *Bag) wouldCycle(segs []string, v Value) bool {
	if v.kind != KindObject && v.kind != KindList {
		return false
	}
	cur := b
	for i := 0; ; i++ {
		if v.refersTo(cur) {
			return true
		}
		if i == len(segs)-1 {
			return false
		}
		next, ok := cur.entries[segs[i]]
		if !ok || next.kind != KindObject {
			return false
		}
		cur = next.obj
	}
}

// SetNull removes the leaf at key. Intermediate bags are kept even when they
// become empty.
func (b *Bag) SetNull(key string) {
	if b == nil {
		return
	}
	segs, ok := splitKey(key)
	if !ok {
		return
	}
	if p := b.parent(segs, false); p != nil {
		delete(p.entries, segs[len(segs)-1])
	}
}

// Delete is SetNull for a qualified key.
func (b *Bag) Delete(key string) { b.SetNull(key) }

func (b *Bag) SetBoolean(key string, v bool)       { b.SetValue(key, Bool(v)) }
func (b *Bag) SetNumber(key string, v float64)     { b.SetValue(key, Number(v)) }
func (b *Bag) SetString(key string, v string)      { b.SetValue(key, String(v)) }
func (b *Bag) SetDate(key string, v time.Time)     { b.SetValue(key, Date(v)) }
func (b *Bag) SetList(key string, vs ...Value)     { b.SetValue(key, List(vs...)) }
func (b *Bag) SetStrings(key string, ss ...string) { b.SetValue(key, Strings(ss...)) }

// SetObject stores o at key by reference: later changes to o are visible
// through b, as with the browser library's option objects. A nil o unsets
// the key. Storing a bag that contains b is ignored.
func (b *Bag) SetObject(key string, o *Bag) { b.SetValue(key, Object(o)) }

// GetBoolean returns the boolean at key, def[0], or false.
func (b *Bag) GetBoolean(key string, def ...bool) bool {
	if v, ok := b.Value(key); ok {
		if x, ok := v.AsBool(); ok {
			return x
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return false
}

// GetNumber returns the number at key, def[0], or 0.
func (b *Bag) GetNumber(key string, def ...float64) float64 {
	if v, ok := b.Value(key); ok {
		if x, ok := v.AsNumber(); ok {
			return x
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return 0
}

// GetInt is GetNumber truncated toward zero.
func (b *Bag) GetInt(key string, def ...int) int {
	if v, ok := b.Value(key); ok {
		if x, ok := v.AsNumber(); ok {
			return int(x)
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return 0
}

// GetString returns the string at key, def[0], or "".
func (b *Bag) GetString(key string, def ...string) string {
	if v, ok := b.Value(key); ok {
		if x, ok := v.AsString(); ok {
			return x
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

// GetDate returns the date at key, def[0], or the zero time. Strings holding
// a date literal or an RFC3339 timestamp are converted.
func (b *Bag) GetDate(key string, def ...time.Time) time.Time {
	if v, ok := b.Value(key); ok {
		if x, ok := v.AsDate(); ok {
			return x
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return time.Time{}
}

// GetObject returns the nested bag at key, def[0], or nil. The returned bag is
// live: writing to it writes into b.
func (b *Bag) GetObject(key string, def ...*Bag) *Bag {
	if v, ok := b.Value(key); ok {
		if x, ok := v.AsObject(); ok {
			return x
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return nil
}

// GetList returns a copy of the list at key, or nil.
func (b *Bag) GetList(key string) []Value {
	if v, ok := b.Value(key); ok {
		if x, ok := v.AsList(); ok {
			return x
		}
	}
	return nil
}

// GetStrings returns the string elements of the list at key; other elements
// are skipped.
func (b *Bag) GetStrings(key string) []string {
	var out []string
	for _, v := range b.GetList(key) {
		if s, ok := v.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of top-level entries.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Keys returns the top-level keys in sorted order.
func (b *Bag) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for each top-level entry in key order until fn returns false.
func (b *Bag) Range(fn func(key string, v Value) bool) {
	for _, k := range b.Keys() {
		if !fn(k, b.entries[k]) {
			return
		}
	}
}

// Paths returns the qualified key of every leaf (non-bag value), sorted.
func (b *Bag) Paths() []string {
	var out []string
	var walk func(prefix string, cur *Bag)
	walk = func(prefix string, cur *Bag) {
		for _, k := range cur.Keys() {
			v := cur.entries[k]
			if v.kind == KindObject {
				walk(prefix+k+".", v.obj)
				continue
			}
			out = append(out, prefix+k)
		}
	}
	walk("", b)
	return out
}

// Clone returns an independent deep copy of b.
func (b *Bag) Clone() *Bag {
	if b == nil {
		return nil
	}
	c := &Bag{entries: make(map[string]Value, len(b.entries))}
	for k, v := range b.entries {
		c.entries[k] = v.Clone()
	}
	return c
}

// Merge overlays other onto b: nested bags merge recursively, everything else
// is replaced by a copy of other's value.
func (b *Bag) Merge(other *Bag) {
	if b == nil || other == nil || other == b {
		return
	}
	for k, ov := range other.entries {
		if cur, ok := b.entries[k]; ok && cur.kind == KindObject && ov.kind == KindObject {
			cur.obj.Merge(ov.obj)
			continue
		}
		if b.entries == nil {
			b.entries = make(map[string]Value)
		}
		b.entries[k] = ov.Clone()
	}
}

// Equal reports whether b and o hold the same entries.
func (b *Bag) Equal(o *Bag) bool {
	if b.Len() != o.Len() {
		return false
	}
	if b.Len() == 0 {
		return true
	}
	for k, v := range b.entries {
		ov, ok := o.entries[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// ToMap converts b to plain Go values (see Value.Any).
func (b *Bag) ToMap() map[string]any {
	out := make(map[string]any, b.Len())
	if b == nil {
		return out
	}
	for k, v := range b.entries {
		out[k] = v.Any()
	}
	return out
}

func (b *Bag) wire() map[string]any {
	out := make(map[string]any, b.Len())
	if b == nil {
		return out
	}
	for k, v := range b.entries {
		out[k] = v.wire()
	}
	return out
}

func (b *Bag) contains(target *Bag) bool {
	if b == nil {
		return false
	}
	for _, v := range b.entries {
		if found := v.refersTo(target); found {
			return true
		}
	}
	return false
}

func (v Value) refersTo(target *Bag) bool {
	switch v.kind {
	case KindObject:
		return v.obj == target || v.obj.contains(target)
	case KindList:
		for _, e := range v.list {
			if e.refersTo(target) {
				return true
			}
		}
	}
	return false
}
