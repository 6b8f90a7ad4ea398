// Package temporal resolves which dated record governs at a given instant, tracks logger
// deployment intervals, buckets readings into calendar periods and reconciles visit
// histories. Nothing here touches the database.
package temporal

import (
	"time"
)

// SentinelInstallDate stands in for an unknown install date: a record without a date is
// treated as having been in place since this instant.
var SentinelInstallDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Candidate is a record eligible for matching. A nil At resolves to SentinelInstallDate.
type Candidate[T any] struct {
	ID    int64
	At    *time.Time
	Value T
}

// Time returns the instant the candidate is dated at.
func (c Candidate[T]) Time() time.Time {
	if c.At == nil {
		return SentinelInstallDate
	}
	return *c.At
}

type matchOptions struct {
	tolerance     time.Duration
	hasTolerance  bool
	strictlyPrior bool
}

// Option adjusts a match.
type Option func(*matchOptions)

// WithTolerance excludes candidates more than hours away from the target.
func WithTolerance(hours float64) Option {
	return func(o *matchOptions) {
		o.tolerance = time.Duration(hours * float64(time.Hour))
		o.hasTolerance = true
	}
}

// WithToleranceDuration is WithTolerance for a duration.
func WithToleranceDuration(d time.Duration) Option {
	return func(o *matchOptions) {
		o.tolerance = d
		o.hasTolerance = true
	}
}

// StrictlyBefore makes MostRecentPrior ignore candidates dated exactly at the target.
func StrictlyBefore() Option {
	return func(o *matchOptions) {
		o.strictlyPrior = true
	}
}

func buildOptions(opts []Option) matchOptions {
	var o matchOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func (o matchOptions) withinTolerance(delta time.Duration) bool {
	return !o.hasTolerance || absDuration(delta) <= o.tolerance
}

// MostRecentPrior returns the candidate with the smallest non-negative gap to t, that is the
// latest one dated at or before t. Candidates dated at the same instant resolve to the larger
// ID. The boolean is false when no candidate qualifies.
func MostRecentPrior[T any](cands []Candidate[T], t time.Time, opts ...Option) (Candidate[T], bool) {
	o := buildOptions(opts)

	var best Candidate[T]
	var bestDelta time.Duration
	found := false
	for _, c := range cands {
		delta := t.Sub(c.Time())
		if delta < 0 || (o.strictlyPrior && delta == 0) || !o.withinTolerance(delta) {
			continue
		}
		if !found || delta < bestDelta || (delta == bestDelta && c.ID > best.ID) {
			best, bestDelta, found = c, delta, true
		}
	}
	return best, found
}

// Closest returns the candidate nearest to t in either direction. Equidistant candidates
// resolve to the smaller ID.
func Closest[T any](cands []Candidate[T], t time.Time, opts ...Option) (Candidate[T], bool) {
	o := buildOptions(opts)

	var best Candidate[T]
	var bestDelta time.Duration
	found := false
	for _, c := range cands {
		delta := absDuration(t.Sub(c.Time()))
		if !o.withinTolerance(delta) {
			continue
		}
		if !found || delta < bestDelta || (delta == bestDelta && c.ID < best.ID) {
			best, bestDelta, found = c, delta, true
		}
	}
	return best, found
}

// ByCloseness returns the candidates within tolerance ordered nearest first, ties by ID.
func ByCloseness[T any](cands []Candidate[T], t time.Time, opts ...Option) []Candidate[T] {
	o := buildOptions(opts)

	out := make([]Candidate[T], 0, len(cands))
	for _, c := range cands {
		if o.withinTolerance(t.Sub(c.Time())) {
			out = append(out, c)
		}
	}
	sortCandidates(out, t)
	return out
}
