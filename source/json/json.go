// Package json adapts encoding/json's token decoder to the engine's
// TokenSource.
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	eng "github.com/reoring/gviz/internal/engine"
)

type frame struct {
	object  bool
	keyNext bool
}

type source struct {
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader as a TokenSource. Numbers keep their literal
// text.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice as a TokenSource.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()
	t := eng.Token{Offset: s.lastOffset}

	switch v := tok.(type) {
	case json.Delim:
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
	case json.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t.Kind = eng.KindNull
	}
	// a member value is complete; the enclosing object expects a key again
	if n := len(s.stack); n > 0 && s.stack[n-1].object {
		s.stack[n-1].keyNext = true
	}
	return t, nil
}

func (s *source) Location() int64 { return s.lastOffset }
