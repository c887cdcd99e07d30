package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

// parsePeriod maps the period query parameters onto a Period: "today",
// "month", "<n>d" for the last n days, or "custom" with start and end
// dates.
func parsePeriod(q url.Values) (core.Period, error) {
	spec := strings.ToLower(strings.TrimSpace(q.Get("period")))
	switch {
	case spec == "" || spec == "today":
		return core.Today(), nil
	case spec == "month":
		return core.CurrentMonth(), nil
	case strings.HasSuffix(spec, "d"):
		n, err := strconv.Atoi(strings.TrimSuffix(spec, "d"))
		if err != nil || n < 1 {
			return core.Period{}, fmt.Errorf("%w: bad day count %q", core.ErrInvalidPeriod, spec)
		}
		return core.LastDays(n), nil
	case spec == "custom":
		start, err := parseDate(q.Get("start"))
		if err != nil {
			return core.Period{}, fmt.Errorf("%w: bad start date", core.ErrInvalidPeriod)
		}
		end, err := parseDate(q.Get("end"))
		if err != nil {
			return core.Period{}, fmt.Errorf("%w: bad end date", core.ErrInvalidPeriod)
		}
		return core.Between(start, end)
	default:
		return core.Period{}, fmt.Errorf("%w: unknown period %q", core.ErrInvalidPeriod, spec)
	}
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, err
	}
	return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

func parseFilterOptions(q url.Values) (core.Options, error) {
	var opts core.Options
	if v := q.Get("kind"); v != "" {
		k := core.Kind(v)
		if !k.Valid() {
			return opts, fmt.Errorf("unknown kind %q", v)
		}
		opts.Kind = k
	}
	if v := q.Get("status"); v != "" {
		st := core.Status(v)
		if !st.Valid() {
			return opts, fmt.Errorf("unknown status %q", v)
		}
		opts.Status = st
	}
	opts.Category = strings.TrimSpace(q.Get("category"))
	opts.Search = strings.TrimSpace(q.Get("q"))
	return opts, nil
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := parsePeriod(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := parseFilterOptions(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The resolved range shifts at midnight, so the day is part of the key.
	key := s.now().Format(time.DateOnly) + "|" + q.Encode()
	if sum, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, sum)
		return
	}

	sum, err := s.dashboard.Summary(r.Context(), p, s.now(), opts)
	if err != nil {
		if errors.Is(err, core.ErrInvalidPeriod) || errors.Is(err, core.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to build summary", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build summary")
		return
	}

	s.summaryCache.Set(key, sum)
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, month := now.Year(), now.Month()

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = time.Month(m)
	}

	key := fmt.Sprintf("%d-%02d", year, month)
	if days, ok := s.calendarCache.Get(key); ok {
		writeJSON(w, http.StatusOK, days)
		return
	}

	days, err := s.dashboard.Calendar(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build calendar", "error", err, "year", year, "month", int(month))
		writeError(w, http.StatusInternalServerError, "could not build calendar")
		return
	}

	s.calendarCache.Set(key, days)
	writeJSON(w, http.StatusOK, days)
}
