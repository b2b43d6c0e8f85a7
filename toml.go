package gviz

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// ParseTOML parses a TOML document into a Bag. Offset date-times, local
// date-times and local dates become dates (local forms are read as UTC);
// local times are kept as strings.
func ParseTOML(data []byte) (*Bag, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, singleIssue(CodeParseError, "/", err.Error())
	}
	return bagFromWire(normalizeTOML(doc).(map[string]any)), nil
}

func normalizeTOML(x any) any {
	switch t := x.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = normalizeTOML(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = normalizeTOML(v)
		}
		return out
	case toml.LocalDate:
		return t.AsTime(time.UTC)
	case toml.LocalDateTime:
		return t.AsTime(time.UTC)
	case toml.LocalTime:
		return t.String()
	case int64:
		return float64(t)
	}
	return x
}

// ToTOML renders b as TOML. Dates are written as native TOML date-times.
// TOML has no null: null list elements and non-finite numbers are dropped.
func (b *Bag) ToTOML() ([]byte, error) {
	out, err := toml.Marshal(b.tomlTree())
	if err != nil {
		return nil, errors.Wrap(err, "gviz: encode toml")
	}
	return out, nil
}

func (b *Bag) tomlTree() map[string]any {
	out := make(map[string]any, b.Len())
	if b == nil {
		return out
	}
	for k, v := range b.entries {
		if tv := v.tomlValue(); tv != nil {
			out[k] = tv
		}
	}
	return out
}

func (v Value) tomlValue() any {
	switch v.kind {
	case KindDate:
		return v.t.UTC()
	case KindObject:
		return v.obj.tomlTree()
	case KindList:
		out := make([]any, 0, len(v.list))
		for _, e := range v.list {
			if tv := e.tomlValue(); tv != nil {
				out = append(out, tv)
			}
		}
		return out
	}
	return v.wire()
}
