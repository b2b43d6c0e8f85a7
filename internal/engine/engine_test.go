package engine

import (
	"errors"
	"io"
	"testing"
)

type sliceSource struct {
	toks []Token
	pos  int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.pos) }

func obj(kv ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, kv...)
	return append(out, Token{Kind: KindEndObject})
}

func key(k string) Token { return Token{Kind: KindKey, String: k} }
func str(s string) Token { return Token{Kind: KindString, String: s} }
func num(n string) Token { return Token{Kind: KindNumber, Number: n} }

func TestDecodeDocument_Object(t *testing.T) {
	toks := obj(key("a"), num("1"), key("b"), Token{Kind: KindBeginArray}, str("x"), Token{Kind: KindNull}, Token{Kind: KindEndArray})
	v, err := DecodeDocument(&sliceSource{toks: toks})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}
	if m["a"].(interface{ String() string }).String() != "1" {
		t.Fatalf("unexpected a: %v", m["a"])
	}
	arr := m["b"].([]any)
	if len(arr) != 2 || arr[0] != "x" || arr[1] != nil {
		t.Fatalf("unexpected b: %#v", arr)
	}
}

func TestDecodeDocument_TrailingData(t *testing.T) {
	toks := append(obj(), str("extra"))
	if _, err := DecodeDocument(&sliceSource{toks: toks}); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
}

func TestDecodeDocument_Truncated(t *testing.T) {
	toks := []Token{{Kind: KindBeginObject}, key("a")}
	if _, err := DecodeDocument(&sliceSource{toks: toks}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestEnforce_DuplicateError(t *testing.T) {
	toks := obj(key("a"), num("1"), key("a"), num("2"))
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError})
	_, err := DecodeDocument(src)
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "duplicate_key" || ie.Path != "/a" {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}
}

func TestEnforce_DuplicateWarnLastWins(t *testing.T) {
	toks := obj(key("a"), num("1"), key("a"), num("2"))
	var got []SimpleIssue
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { got = append(got, si) },
	})
	v, err := DecodeDocument(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one warning, got %v", got)
	}
	if v.(map[string]any)["a"].(interface{ String() string }).String() != "2" {
		t.Fatalf("expected last value to win")
	}
}

func TestEnforce_MaxDepth(t *testing.T) {
	toks := obj(key("a"), Token{Kind: KindBeginObject}, key("b"), Token{Kind: KindBeginObject}, Token{Kind: KindEndObject}, Token{Kind: KindEndObject})
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: 2})
	_, err := DecodeDocument(src)
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected depth issue, got %v", err)
	}
	if ie.Path != "/a/b" {
		t.Fatalf("unexpected path %q", ie.Path)
	}
}

func TestEnforce_NestedArrayPath(t *testing.T) {
	toks := obj(key("rows"), Token{Kind: KindBeginArray},
		Token{Kind: KindBeginObject}, key("c"), num("1"), Token{Kind: KindEndObject},
		Token{Kind: KindBeginObject}, key("c"), num("1"), key("c"), num("2"), Token{Kind: KindEndObject},
		Token{Kind: KindEndArray})
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError})
	_, err := DecodeDocument(src)
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/rows/1/c" {
		t.Fatalf("expected duplicate at /rows/1/c, got %v", err)
	}
}

func TestDetectDuplicateKeys_Cap(t *testing.T) {
	toks := obj(key("a"), num("1"), key("a"), num("2"), key("a"), num("3"))
	iss, err := DetectDuplicateKeys(&sliceSource{toks: toks}, DupWarn, 1)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(iss) != 2 || iss[1].Code != "truncated" {
		t.Fatalf("unexpected issues: %v", iss)
	}
}
