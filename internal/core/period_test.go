package core

import (
	"errors"
	"testing"
	"time"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

// Reference instant: 2025-04-15 10:30 local time.
func refNow() time.Time {
	return time.Date(2025, time.April, 15, 10, 30, 0, 0, saoPaulo)
}

func TestResolveToday(t *testing.T) {
	rng, err := Today().Resolve(refNow(), nil)
	if err != nil {
		t.Fatal(err)
	}
	wantStart := time.Date(2025, time.April, 15, 0, 0, 0, 0, saoPaulo)
	if !rng.Start.Equal(wantStart) {
		t.Fatalf("start: expected %v, got %v", wantStart, rng.Start)
	}
	if !rng.End.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("end: expected next midnight, got %v", rng.End)
	}
}

func TestResolveLastDaysIsCalendarAligned(t *testing.T) {
	rng, err := LastDays(7).Resolve(refNow(), nil)
	if err != nil {
		t.Fatal(err)
	}
	// Seven calendar days including today: April 9 through end of April 15.
	wantStart := time.Date(2025, time.April, 9, 0, 0, 0, 0, saoPaulo)
	wantEnd := time.Date(2025, time.April, 16, 0, 0, 0, 0, saoPaulo)
	if !rng.Start.Equal(wantStart) || !rng.End.Equal(wantEnd) {
		t.Fatalf("expected [%v, %v), got [%v, %v)", wantStart, wantEnd, rng.Start, rng.End)
	}

	// Non-positive day counts clamp to a single day.
	rng, err = LastDays(0).Resolve(refNow(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rng.End.Sub(rng.Start) != 24*time.Hour {
		t.Fatalf("expected one-day window, got %v", rng.End.Sub(rng.Start))
	}
}

func TestResolveCurrentMonth(t *testing.T) {
	rng, err := CurrentMonth().Resolve(refNow(), nil)
	if err != nil {
		t.Fatal(err)
	}
	wantStart := time.Date(2025, time.April, 1, 0, 0, 0, 0, saoPaulo)
	wantEnd := time.Date(2025, time.May, 1, 0, 0, 0, 0, saoPaulo)
	if !rng.Start.Equal(wantStart) || !rng.End.Equal(wantEnd) {
		t.Fatalf("expected [%v, %v), got [%v, %v)", wantStart, wantEnd, rng.Start, rng.End)
	}
}

func TestResolveCustomEndInclusive(t *testing.T) {
	p, err := Between(NewDate(2025, 4, 1), NewDate(2025, 4, 3))
	if err != nil {
		t.Fatal(err)
	}
	rng, err := p.Resolve(refNow(), saoPaulo)
	if err != nil {
		t.Fatal(err)
	}
	lastIn := time.Date(2025, time.April, 3, 23, 59, 59, 0, saoPaulo)
	firstOut := time.Date(2025, time.April, 4, 0, 0, 0, 0, saoPaulo)
	if !rng.Contains(lastIn) {
		t.Fatalf("end date must be inclusive, %v excluded", lastIn)
	}
	if rng.Contains(firstOut) {
		t.Fatalf("half-open range must exclude %v", firstOut)
	}

	// Single-day custom ranges are valid.
	if _, err := Between(NewDate(2025, 4, 1), NewDate(2025, 4, 1)); err != nil {
		t.Fatalf("same-day range rejected: %v", err)
	}
}

func TestBetweenRejectsReversedRange(t *testing.T) {
	_, err := Between(NewDate(2025, 4, 10), NewDate(2025, 4, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestZeroPeriodDoesNotResolve(t *testing.T) {
	var p Period
	if _, err := p.Resolve(refNow(), nil); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
