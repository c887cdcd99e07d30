package core

import (
	"iter"
	"strings"
)

// Options narrows a filtered sequence beyond the period window. Zero values
// mean "no restriction", so the zero Options includes every record in range:
// pending records in particular are never excluded unless Status is set.
type Options struct {
	Kind     Kind   // exact match when set
	Category string // case-insensitive exact match against the category label
	Search   string // case-insensitive substring over description or category
	Status   Status // exact match when set
}

// Filter selects the records whose timestamp falls in [rng.Start, rng.End)
// and that satisfy opts. The result is a lazy single-pass sequence over the
// source: nothing is materialized, and the result is restartable only if the
// source is.
func Filter(records iter.Seq[Record], rng Range, opts Options) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for r := range records {
			if !matches(r, rng, opts) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

func matches(r Record, rng Range, opts Options) bool {
	if !rng.Contains(r.OccurredAt) {
		return false
	}
	if opts.Kind != "" && r.Kind != opts.Kind {
		return false
	}
	if opts.Status != "" && r.Status != opts.Status {
		return false
	}
	if opts.Category != "" && !strings.EqualFold(r.CategoryLabel(), opts.Category) {
		return false
	}
	if opts.Search != "" {
		q := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(r.Description), q) &&
			!strings.Contains(strings.ToLower(r.CategoryLabel()), q) {
			return false
		}
	}
	return true
}
