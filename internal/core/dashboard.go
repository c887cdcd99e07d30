package core

import (
	"iter"
	"time"
)

// BuildSummary composes the full pipeline: resolve the period against now,
// filter the record stream, aggregate the survivors. The only possible error
// is an unresolvable period; empty input yields a well-formed zero summary.
func BuildSummary(records iter.Seq[Record], p Period, now time.Time, loc *time.Location, opts Options) (Summary, error) {
	rng, err := p.Resolve(now, loc)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(Filter(records, rng, opts), rng), nil
}
