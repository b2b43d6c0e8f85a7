package gviz

import (
	"io"

	"github.com/cockroachdb/errors"

	eng "github.com/reoring/gviz/internal/engine"
)

// Severity expresses how an enforcement finding is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn reports and keeps the last value; Error rejects.
}

// ParseOpt bundles parsing options. The zero value accepts duplicates (last
// wins) with no depth or size cap.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	// OnIssue receives non-fatal issues such as tolerated duplicate keys.
	OnIssue func(Issue)
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return ParseOpt{}
}

// ParseJSON parses a JSON object into a Bag. Strings holding date literals
// become dates and null members are dropped.
func ParseJSON(data []byte, opts ...ParseOpt) (*Bag, error) {
	return ParseSource(JSONBytes(data), opts...)
}

// ParseJSONReader is ParseJSON over a stream.
func ParseJSONReader(r io.Reader, opts ...ParseOpt) (*Bag, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes <= 0 {
		return ParseSource(JSONReader(r), opts...)
	}
	lr := &io.LimitedReader{R: r, N: opt.MaxBytes + 1}
	b, err := ParseSource(JSONReader(lr), opts...)
	if err != nil && lr.N == 0 {
		// the input ran past the cap; whatever broke is a consequence of the cut
		return nil, singleIssue(CodeTruncated, "/", "max bytes exceeded")
	}
	return b, err
}

// ParseSource parses a Bag from an arbitrary token Source.
func ParseSource(src Source, opts ...ParseOpt) (*Bag, error) {
	v, err := DecodeSource(src, opts...)
	if err != nil {
		return nil, err
	}
	b, ok := v.AsObject()
	if !ok {
		return nil, singleIssue(CodeInvalidType, "/", "expected object, got "+v.Kind().String())
	}
	return b, nil
}

// DecodeSource decodes any JSON value (object, list or scalar) from src.
func DecodeSource(src Source, opts ...ParseOpt) (Value, error) {
	opt := lastOpt(opts)
	var s eng.TokenSource = src
	if !enforceOptions(opt).Disabled() || opt.OnIssue != nil {
		s = EnforceSource(src, opt, opt.OnIssue)
	}
	tree, err := eng.DecodeDocument(s)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, singleIssue(CodeParseError, "/", "empty input")
		}
		return Value{}, toIssues(err, src.Location())
	}
	return fromWire(tree), nil
}

// DecodeJSON decodes any JSON value from data.
func DecodeJSON(data []byte, opts ...ParseOpt) (Value, error) {
	return DecodeSource(JSONBytes(data), opts...)
}

func enforceOptions(opt ParseOpt) eng.EnforceOptions {
	return eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
