package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("model: invalid date")

// Date is a local calendar date with no time of day. The zero value means
// "no date" and is persisted as JSON null.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// midnight anchors the date at UTC midnight so that day arithmetic never
// crosses a DST transition.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

func (d Date) Before(other Date) bool {
	return d.midnight().Before(other.midnight())
}

// DaysSince returns the signed number of calendar days from earlier to d.
func (d Date) DaysSince(earlier Date) int {
	return int(d.midnight().Sub(earlier.midnight()) / (24 * time.Hour))
}

// DaysApart returns the absolute calendar distance between two dates.
func DaysApart(a, b Date) int {
	n := a.DaysSince(b)
	if n < 0 {
		return -n
	}
	return n
}

// WeekStart returns the Monday of the ISO week containing d.
func (d Date) WeekStart() Date {
	wd := int(d.Weekday())
	offset := 1 - wd
	if wd == 0 {
		offset = -6
	}
	return d.AddDays(offset)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON is lenient: null, an empty string or anything unparseable
// leaves the zero date, and a full timestamp contributes its date part.
func (d *Date) UnmarshalJSON(data []byte) error {
	*d = Date{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
	}
	return nil
}
