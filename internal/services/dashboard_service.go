package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
	"financas/internal/storage"
)

// DashboardService feeds stored transactions through the aggregation
// engine.
type DashboardService struct {
	storage   *storage.Repository
	location  *time.Location
	weekStart time.Weekday
}

func NewDashboardService(storage *storage.Repository, loc *time.Location, weekStart time.Weekday) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		storage:   storage,
		location:  loc,
		weekStart: weekStart,
	}
}

// Summary resolves the period, loads the matching rows and aggregates
// them. Only rows inside the resolved range are ever read from storage.
func (s *DashboardService) Summary(ctx context.Context, p core.Period, now time.Time, opts core.Options) (core.Summary, error) {
	rng, err := p.Resolve(now, s.location)
	if err != nil {
		return core.Summary{}, fmt.Errorf("resolve period: %w", err)
	}

	records, err := s.storage.ListRecordsInRange(ctx, rng)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load transactions: %w", err)
	}

	return core.BuildSummary(core.Records(records), p, now, s.location, opts)
}

// Calendar returns the 42-cell month grid for one month, including the
// leading and trailing days that fill out its weeks.
func (s *DashboardService) Calendar(ctx context.Context, year int, month time.Month) ([]core.CalendarDay, error) {
	rng := core.GridRange(year, month, s.weekStart, s.location)

	records, err := s.storage.ListRecordsInRange(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	return core.MonthGrid(core.Records(records), year, month, s.weekStart, s.location), nil
}
