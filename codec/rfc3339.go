// Package codec holds scalar codecs for the wire forms dates take in chart
// options and data tables.
package codec

import (
	"context"
	"time"

	"github.com/reoring/gviz"
)

// TimeRFC3339 returns a Codec that converts between RFC3339 strings and time.Time.
func TimeRFC3339() gviz.Codec[string, time.Time] { return rfc3339Codec{} }

type rfc3339Codec struct{}

func (rfc3339Codec) Decode(ctx context.Context, a string) (time.Time, error) {
	t, err := parseRFC3339(a)
	if err != nil {
		return time.Time{}, gviz.Issues{{Path: "/", Code: gviz.CodeInvalidFormat, Message: "invalid RFC3339 time", Cause: err, Offset: -1}}
	}
	return t, nil
}

func (rfc3339Codec) Encode(ctx context.Context, b time.Time) (string, error) {
	return formatRFC3339Canonical(b), nil
}

func parseRFC3339(s string) (time.Time, error) {
	// RFC3339Nano accepts inputs without fractional seconds as well
	return time.Parse(time.RFC3339Nano, s)
}

func formatRFC3339Canonical(t time.Time) string {
	// UTC, trailing zeros of the fraction trimmed
	return t.UTC().Format(time.RFC3339Nano)
}
