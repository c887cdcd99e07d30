package core

import (
	"errors"
	"strconv"
	"time"
)

var (
	// ErrInvalidRange reports a custom period whose start date is after its
	// end date. It is the only construction-time error in the package.
	ErrInvalidRange = errors.New("invalid period range: start date after end date")

	// ErrInvalidPeriod reports a period variant the resolver does not know.
	// Unreachable through the exported constructors; kept defensive.
	ErrInvalidPeriod = errors.New("unknown period variant")
)

// Date is a calendar date with no time-of-day component, anchored at UTC
// midnight so values built through NewDate compare with ==.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf extracts the calendar date of an instant in the given location.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = t.Location()
	}
	y, m, d := t.In(loc).Date()
	return NewDate(y, int(m), d)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// MarshalJSON encodes the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Format(time.DateOnly))), nil
}

// UnmarshalJSON decodes a "2006-01-02" date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Range is a resolved half-open instant window [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// lastDate is the calendar date of the last instant inside the window.
func (r Range) lastDate(loc *time.Location) Date {
	return DateOf(r.End.Add(-time.Nanosecond), loc)
}

type periodKind int

const (
	periodToday periodKind = iota + 1
	periodLastDays
	periodCurrentMonth
	periodCustom
)

// Period is a closed set of time-window variants: today, a trailing run of
// calendar days, the current month, or an explicit date range. Construct
// values only through the functions below; the zero Period does not resolve.
type Period struct {
	kind  periodKind
	days  int
	start Date
	end   Date
}

// Today selects the current local calendar day.
func Today() Period {
	return Period{kind: periodToday}
}

// LastDays selects the trailing n calendar days including today. The window
// is calendar-aligned, not rolling: it starts at local midnight n-1 days
// back and ends at the end of the current day. Values below 1 count as 1.
func LastDays(n int) Period {
	return Period{kind: periodLastDays, days: n}
}

// CurrentMonth selects the calendar month containing the reference instant.
func CurrentMonth() Period {
	return Period{kind: periodCurrentMonth}
}

// Between selects an explicit date range, both endpoints inclusive.
func Between(start, end Date) (Period, error) {
	if start.After(end.Time) {
		return Period{}, ErrInvalidRange
	}
	return Period{kind: periodCustom, start: start, end: end}, nil
}

// Resolve maps the period plus a reference instant onto a concrete half-open
// range with local-midnight boundaries in loc (now's location when nil).
// Every constructed period resolves unconditionally.
func (p Period) Resolve(now time.Time, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = now.Location()
	}
	switch p.kind {
	case periodToday:
		start := midnight(now, loc)
		return Range{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case periodLastDays:
		n := p.days
		if n < 1 {
			n = 1
		}
		end := midnight(now, loc).AddDate(0, 0, 1)
		return Range{Start: end.AddDate(0, 0, -n), End: end}, nil
	case periodCurrentMonth:
		local := now.In(loc)
		first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return Range{Start: first, End: first.AddDate(0, 1, 0)}, nil
	case periodCustom:
		start := time.Date(p.start.Year(), p.start.Month(), p.start.Day(), 0, 0, 0, 0, loc)
		end := time.Date(p.end.Year(), p.end.Month(), p.end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		return Range{Start: start, End: end}, nil
	default:
		return Range{}, ErrInvalidPeriod
	}
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
