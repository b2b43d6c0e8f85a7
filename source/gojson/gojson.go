// Package gojson provides a JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/gviz"
	eng "github.com/reoring/gviz/internal/engine"
)

// Driver returns a gviz.JSONDriver backed by goccy/go-json.
func Driver() gviz.JSONDriver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) gviz.Source { return NewReader(r) }
func (driver) NewBytes(b []byte) gviz.Source     { return NewBytes(b) }
func (driver) Marshal(v any) ([]byte, error)     { return j.Marshal(v) }
func (driver) Name() string                      { return "go-json" }
func (driver) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return j.MarshalIndent(v, prefix, indent)
}

type frame struct {
	object  bool
	keyNext bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader wraps an io.Reader as a TokenSource. go-json does not report
// offsets, so Location is always -1.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice as a TokenSource.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	t := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{object: true, keyNext: true})
			t.Kind = eng.KindBeginObject
			return t, nil
		case '[':
			s.stack = append(s.stack, frame{})
			t.Kind = eng.KindBeginArray
			return t, nil
		case '}':
			t.Kind = eng.KindEndObject
		case ']':
			t.Kind = eng.KindEndArray
		}
		if n := len(s.stack); n > 0 {
			s.stack = s.stack[:n-1]
		}
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].keyNext {
			s.stack[n-1].keyNext = false
			t.Kind, t.String = eng.KindKey, v
			return t, nil
		}
		t.Kind, t.String = eng.KindString, v
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	case j.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t.Kind = eng.KindNull
	}
	if n := len(s.stack); n > 0 && s.stack[n-1].object {
		s.stack[n-1].keyNext = true
	}
	return t, nil
}

func (s *source) Location() int64 { return -1 }
