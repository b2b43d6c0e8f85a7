package codec

import (
	"context"
	"strings"
	"time"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/internal/datelit"
)

// DateLiteral returns a Codec for the "Date(y,m,d[,h,mi,s[,ms]])" form used by
// chart data, with a zero-based month. Encoding always writes UTC.
func DateLiteral() gviz.Codec[string, time.Time] { return dateLiteralCodec{} }

type dateLiteralCodec struct{}

func (dateLiteralCodec) Decode(ctx context.Context, a string) (time.Time, error) {
	t, ok := datelit.Parse(a)
	if !ok {
		return time.Time{}, gviz.Issues{{Path: "/", Code: gviz.CodeInvalidFormat, Message: "invalid date literal: " + a, Offset: -1}}
	}
	return t, nil
}

func (dateLiteralCodec) Encode(ctx context.Context, b time.Time) (string, error) {
	return datelit.Format(b), nil
}

// cellLayouts are tried in order after the literal and RFC3339 forms.
var cellLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseDateCell reads a date from a table cell or option string. It accepts a
// date literal, an RFC3339 timestamp or one of the plain layouts in UTC.
func ParseDateCell(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := datelit.Parse(s); ok {
		return t, true
	}
	if t, err := parseRFC3339(s); err == nil {
		return t, true
	}
	for _, layout := range cellLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
