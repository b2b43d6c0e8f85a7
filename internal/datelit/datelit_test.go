package datelit

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2012, 1, 31, 0, 0, 0, 0, time.UTC), "Date(2012,0,31)"},
		{time.Date(2024, 12, 5, 10, 30, 0, 0, time.UTC), "Date(2024,11,5,10,30,0)"},
		{time.Date(2024, 12, 5, 0, 0, 0, 250*int(time.Millisecond), time.UTC), "Date(2024,11,5,0,0,0,250)"},
	}
	for _, c := range cases {
		if got := Format(c.in); got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	in := time.Date(2023, 6, 15, 8, 9, 10, 123*int(time.Millisecond), time.UTC)
	got, ok := Parse(Format(in))
	if !ok || !got.Equal(in) {
		t.Fatalf("round trip mismatch: %v %v", got, ok)
	}
}

func TestParse_Variants(t *testing.T) {
	if got, ok := Parse("new Date(2020, 0, 2)"); !ok || !got.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("new Date form: %v %v", got, ok)
	}
	if got, ok := Parse("Date(2020,1)"); !ok || got.Day() != 1 || got.Month() != time.February {
		t.Fatalf("year/month form: %v %v", got, ok)
	}
	if got, ok := Parse("Date(0)"); !ok || !got.Equal(time.Unix(0, 0)) {
		t.Fatalf("epoch form: %v %v", got, ok)
	}
	for _, bad := range []string{"", "Date()", "Date(a,b,c)", "2020-01-02", "Date(1,2,3,4,5,6,7,8)"} {
		if _, ok := Parse(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
