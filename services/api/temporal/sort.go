package temporal

import (
	"cmp"
	"slices"
	"time"
)

func sortCandidates[T any](cands []Candidate[T], t time.Time) {
	slices.SortStableFunc(cands, func(a, b Candidate[T]) int {
		if c := cmp.Compare(absDuration(t.Sub(a.Time())), absDuration(t.Sub(b.Time()))); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// compareOptionalTime orders nil after every instant.
func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
