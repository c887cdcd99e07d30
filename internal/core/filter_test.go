package core

import (
	"slices"
	"testing"
	"time"
)

func rec(kind Kind, cents int64, day int, category, desc string) Record {
	return Record{
		Kind:        kind,
		Amount:      Money{Cents: cents},
		OccurredAt:  time.Date(2025, time.April, day, 12, 0, 0, 0, saoPaulo),
		Category:    category,
		Description: desc,
		Status:      StatusSettled,
	}
}

func aprilRange(t *testing.T) Range {
	t.Helper()
	p, err := Between(NewDate(2025, 4, 1), NewDate(2025, 4, 30))
	if err != nil {
		t.Fatal(err)
	}
	rng, err := p.Resolve(refNow(), saoPaulo)
	if err != nil {
		t.Fatal(err)
	}
	return rng
}

func TestFilterWindowBoundaries(t *testing.T) {
	rng := aprilRange(t)
	records := []Record{
		{Kind: KindIncome, Amount: Money{Cents: 100}, OccurredAt: rng.Start},                       // first instant: in
		{Kind: KindIncome, Amount: Money{Cents: 200}, OccurredAt: rng.Start.Add(-time.Nanosecond)}, // before: out
		{Kind: KindIncome, Amount: Money{Cents: 300}, OccurredAt: rng.End.Add(-time.Second)},       // last day: in
		{Kind: KindIncome, Amount: Money{Cents: 400}, OccurredAt: rng.End},                         // end instant: out
	}
	got := slices.Collect(Filter(Records(records), rng, Options{}))
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Amount.Cents != 100 || got[1].Amount.Cents != 300 {
		t.Fatalf("wrong records selected: %v", got)
	}
}

func TestFilterOptions(t *testing.T) {
	rng := aprilRange(t)
	records := []Record{
		rec(KindIncome, 1000, 1, "Salário", "pagamento mensal"),
		rec(KindExpense, 200, 2, "Mercado", "compras da semana"),
		rec(KindExpense, 300, 3, "", "presente"),
	}
	records[2].Status = StatusPending

	cases := []struct {
		name string
		opts Options
		want int
	}{
		{"all", Options{}, 3},
		{"by kind", Options{Kind: KindExpense}, 2},
		{"by category exact, case-insensitive", Options{Category: "mercado"}, 1},
		{"fallback category", Options{Category: "outros"}, 1},
		{"search description", Options{Search: "SEMANA"}, 1},
		{"search matches category too", Options{Search: "salá"}, 1},
		{"by status", Options{Status: StatusPending}, 1},
		{"pending included by default", Options{Kind: KindExpense, Status: ""}, 2},
	}
	for _, tc := range cases {
		got := slices.Collect(Filter(Records(records), rng, tc.opts))
		if len(got) != tc.want {
			t.Fatalf("%s: expected %d records, got %d", tc.name, tc.want, len(got))
		}
	}
}

// Filtering an already-filtered sequence with the same range and options
// must return the same elements.
func TestFilterIdempotent(t *testing.T) {
	rng := aprilRange(t)
	records := []Record{
		rec(KindIncome, 1000, 1, "Salário", "a"),
		rec(KindExpense, 200, 2, "Mercado", "b"),
		rec(KindExpense, 300, 28, "Mercado", "c"),
	}
	opts := Options{Kind: KindExpense}

	once := slices.Collect(Filter(Records(records), rng, opts))
	twice := slices.Collect(Filter(Records(once), rng, opts))
	if !slices.Equal(once, twice) {
		t.Fatalf("filter not idempotent: %v vs %v", once, twice)
	}
}

// The filter must not materialize or exhaust its source: stopping early
// stops the single pass over the source as well.
func TestFilterIsLazy(t *testing.T) {
	rng := aprilRange(t)
	pulled := 0
	source := func(yield func(Record) bool) {
		for day := 1; day <= 30; day++ {
			pulled++
			if !yield(rec(KindIncome, 100, day, "x", "")) {
				return
			}
		}
	}

	for range Filter(source, rng, Options{}) {
		break
	}
	if pulled != 1 {
		t.Fatalf("expected a single pull from source, got %d", pulled)
	}
}
