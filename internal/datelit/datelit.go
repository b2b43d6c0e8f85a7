// Package datelit formats and parses the chart library's date literal,
// "Date(year, month, day[, hours, minutes, seconds[, milliseconds]])", where
// month is zero-based. Literals are always interpreted in UTC.
package datelit

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var literalRE = regexp.MustCompile(`^\s*(?:new\s+)?Date\(\s*(-?\d+(?:\s*,\s*-?\d+){0,6})\s*\)\s*$`)

// Format renders t as a date literal. Time-of-day parts are omitted at
// midnight and milliseconds are omitted when zero; sub-millisecond precision
// is dropped.
func Format(t time.Time) string {
	t = t.UTC()
	b := &strings.Builder{}
	b.WriteString("Date(")
	b.WriteString(strconv.Itoa(t.Year()))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(t.Month()) - 1))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(t.Day()))
	ms := t.Nanosecond() / int(time.Millisecond)
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || ms != 0 {
		for _, p := range []int{t.Hour(), t.Minute(), t.Second()} {
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(p))
		}
		if ms != 0 {
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(ms))
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Parse reads a date literal. A single argument is taken as milliseconds
// since the Unix epoch, matching the browser Date constructor.
func Parse(s string) (time.Time, bool) {
	m := literalRE.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	raw := strings.Split(m[1], ",")
	parts := make([]int, 0, 7)
	for _, r := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			return time.Time{}, false
		}
		parts = append(parts, n)
	}
	if len(parts) == 1 {
		return time.UnixMilli(int64(parts[0])).UTC(), true
	}
	for len(parts) < 7 {
		// day defaults to 1, everything else to 0
		if len(parts) == 2 {
			parts = append(parts, 1)
			continue
		}
		parts = append(parts, 0)
	}
	return time.Date(parts[0], time.Month(parts[1]+1), parts[2], parts[3], parts[4], parts[5], parts[6]*int(time.Millisecond), time.UTC), true
}

// Is reports whether s looks like a date literal.
func Is(s string) bool { return literalRE.MatchString(s) }
