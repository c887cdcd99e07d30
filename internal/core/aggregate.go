package core

import (
	"iter"
	"sort"
	"time"
)

// Donut slice order and colors are fixed: income first, then expense.
const (
	SliceLabelIncome  = "Entradas"
	SliceLabelExpense = "Saídas"

	sliceColorIncome  = "#2DD4BF"
	sliceColorExpense = "#38BDF8"
)

// Slice is one kind's share of the period total, for pie/donut rendering.
type Slice struct {
	Label string `json:"label"`
	Value Money  `json:"value"`
	Color string `json:"color"`
}

// CategoryAmount is an amount aggregated by category label.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// TrendPoint is one day's totals within a period. Balance is always
// Income minus Expense; it is carried explicitly so chart consumers get
// the net line without recomputing it.
type TrendPoint struct {
	Date    Date  `json:"date"`
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Balance Money `json:"balance"`
}

// Net is the day's balance, income minus expense.
func (p TrendPoint) Net() Money {
	return p.Income.Sub(p.Expense)
}

// CalendarDay is one cell of a month grid: the day's net total, whether any
// record fell on it, and whether it belongs to the displayed month or is an
// adjacent-month filler.
type CalendarDay struct {
	Date           Date  `json:"date"`
	Total          Money `json:"total"`
	HasActivity    bool  `json:"hasActivity"`
	IsCurrentMonth bool  `json:"isCurrentMonth"`
}

// Summary is the aggregate view of one filtered period. It is a pure value:
// recomputed wholesale whenever records or period change, never patched.
type Summary struct {
	TotalIncome  Money            `json:"totalIncome"`
	TotalExpense Money            `json:"totalExpense"`
	Balance      Money            `json:"balance"`
	Slices       []Slice          `json:"slices"`
	ByCategory   []CategoryAmount `json:"byCategory"`
	Trend        []TrendPoint     `json:"trend"`
}

type dayTotals struct {
	income  int64
	expense int64
}

// Summarize aggregates a filtered record sequence over its resolved range in
// a single pass: totals by kind, the fixed two-slice breakdown, per-category
// totals in descending order, and a zero-filled daily trend covering every
// calendar day the range touches. Given the same inputs the output is
// identical across calls; the current time is never consulted here.
func Summarize(records iter.Seq[Record], rng Range) Summary {
	loc := rng.Start.Location()

	var income, expense int64
	byDay := make(map[Date]*dayTotals)
	byCategory := make(map[string]int64)

	for r := range records {
		day := DateOf(r.OccurredAt, loc)
		dt := byDay[day]
		if dt == nil {
			dt = &dayTotals{}
			byDay[day] = dt
		}
		if r.Kind == KindExpense {
			expense += r.Amount.Cents
			dt.expense += r.Amount.Cents
		} else {
			income += r.Amount.Cents
			dt.income += r.Amount.Cents
		}
		byCategory[r.CategoryLabel()] += r.Amount.Cents
	}

	s := Summary{
		TotalIncome:  Money{Cents: income},
		TotalExpense: Money{Cents: expense},
		Balance:      Money{Cents: income - expense},
		Slices: []Slice{
			{Label: SliceLabelIncome, Value: Money{Cents: income}, Color: sliceColorIncome},
			{Label: SliceLabelExpense, Value: Money{Cents: expense}, Color: sliceColorExpense},
		},
		ByCategory: sortedCategories(byCategory),
		Trend:      buildTrend(byDay, rng, loc),
	}
	return s
}

// buildTrend emits one point per calendar day from the range's first date to
// the date of its last included instant, zero-valued for silent days, dates
// strictly ascending.
func buildTrend(byDay map[Date]*dayTotals, rng Range, loc *time.Location) []TrendPoint {
	first := DateOf(rng.Start, loc)
	last := rng.lastDate(loc)

	var trend []TrendPoint
	for d := first; !d.After(last.Time); d = d.AddDays(1) {
		p := TrendPoint{Date: d}
		if dt := byDay[d]; dt != nil {
			p.Income = Money{Cents: dt.income}
			p.Expense = Money{Cents: dt.expense}
		}
		p.Balance = p.Net()
		trend = append(trend, p)
	}
	return trend
}

func sortedCategories(byCategory map[string]int64) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(byCategory))
	for name, cents := range byCategory {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Grid dimensions: six full weeks, the original tracker's fixed layout.
const (
	gridWeeks = 6
	gridDays  = gridWeeks * 7
)

// GridRange returns the instant window covered by the 42-cell display grid
// of a month, for callers that fetch records before building the grid.
func GridRange(year int, month time.Month, weekStart time.Weekday, loc *time.Location) Range {
	if loc == nil {
		loc = time.Local
	}
	start := gridStart(year, month, weekStart)
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	return Range{Start: s, End: s.AddDate(0, 0, gridDays)}
}

// MonthGrid builds the full display grid for a month: always 42 cells in
// week rows beginning on weekStart, with adjacent-month filler days marked
// IsCurrentMonth=false. Week start is configurable because locales disagree
// on it. Records outside the grid window are ignored.
func MonthGrid(records iter.Seq[Record], year int, month time.Month, weekStart time.Weekday, loc *time.Location) []CalendarDay {
	if loc == nil {
		loc = time.Local
	}

	totals := make(map[Date]int64)
	for r := range records {
		day := DateOf(r.OccurredAt, loc)
		totals[day] += r.signedCents()
	}

	start := gridStart(year, month, weekStart)
	days := make([]CalendarDay, 0, gridDays)
	for i := 0; i < gridDays; i++ {
		d := start.AddDays(i)
		total, has := totals[d]
		days = append(days, CalendarDay{
			Date:           d,
			Total:          Money{Cents: total},
			HasActivity:    has,
			IsCurrentMonth: d.Time.Month() == month,
		})
	}
	return days
}

func gridStart(year int, month time.Month, weekStart time.Weekday) Date {
	first := NewDate(year, int(month), 1)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	return first.AddDays(-offset)
}
