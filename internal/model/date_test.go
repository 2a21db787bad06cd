package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("2026-13-40")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDaysSinceAcrossDSTBoundaries(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		// 2026-03-08 is 23 hours long in New York.
		{"spring forward", time.Date(2026, 3, 7, 23, 30, 0, 0, loc), time.Date(2026, 3, 8, 23, 30, 0, 0, loc), 1},
		// 2026-11-01 is 25 hours long in New York.
		{"fall back", time.Date(2026, 10, 31, 0, 5, 0, 0, loc), time.Date(2026, 11, 1, 23, 55, 0, 0, loc), 1},
		{"same day", time.Date(2026, 3, 8, 0, 1, 0, 0, loc), time.Date(2026, 3, 8, 23, 59, 0, 0, loc), 0},
		{"two days", time.Date(2026, 10, 31, 12, 0, 0, 0, loc), time.Date(2026, 11, 2, 1, 0, 0, 0, loc), 2},
	}
	for _, tc := range cases {
		got := DateOf(tc.to).DaysSince(DateOf(tc.from))
		if got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestDaysApartIsAbsolute(t *testing.T) {
	a := mustDate(t, "2026-02-10")
	b := mustDate(t, "2026-02-07")
	if DaysApart(a, b) != 3 || DaysApart(b, a) != 3 {
		t.Fatalf("expected absolute distance 3, got %d / %d", DaysApart(a, b), DaysApart(b, a))
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	cases := map[string]string{
		"2026-02-09": "2026-02-09", // Monday
		"2026-02-11": "2026-02-09", // Wednesday
		"2026-02-14": "2026-02-09", // Saturday
		"2026-02-15": "2026-02-09", // Sunday maps back six days
		"2026-03-01": "2026-02-23", // Sunday across a month boundary
	}
	for in, want := range cases {
		if got := mustDate(t, in).WeekStart().String(); got != want {
			t.Fatalf("week start of %s: got %s want %s", in, got, want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	type holder struct {
		D Date `json:"d"`
	}
	out, err := json.Marshal(holder{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"d":null}` {
		t.Fatalf("zero date should marshal as null, got %s", out)
	}

	var h holder
	if err := json.Unmarshal([]byte(`{"d":"2026-02-09T18:30:00.000Z"}`), &h); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if h.D.String() != "2026-02-09" {
		t.Fatalf("expected date part of timestamp, got %q", h.D.String())
	}

	if err := json.Unmarshal([]byte(`{"d":"not a date"}`), &h); err != nil {
		t.Fatalf("lenient unmarshal should not fail: %v", err)
	}
	if !h.D.IsZero() {
		t.Fatalf("expected zero date for garbage, got %v", h.D)
	}
}

func TestParseCellKey(t *testing.T) {
	row, day, err := ParseCellKey(CellKey(2, 5))
	if err != nil || row != 2 || day != 5 {
		t.Fatalf("round trip failed: row=%d day=%d err=%v", row, day, err)
	}
	if _, _, err := ParseCellKey("x:1"); !errors.Is(err, ErrInvalidCellKey) {
		t.Fatalf("expected ErrInvalidCellKey, got %v", err)
	}
}
