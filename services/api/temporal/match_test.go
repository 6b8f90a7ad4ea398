package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func cand(id int64, ts string) Candidate[string] {
	c := Candidate[string]{ID: id, Value: ts}
	if ts != "" {
		c.At = at(ts)
	}
	return c
}

func TestMostRecentPrior(t *testing.T) {
	cands := []Candidate[string]{
		cand(1, "2019-06-01T00:00:00Z"),
		cand(2, "2020-06-01T00:00:00Z"),
		cand(3, "2021-06-01T00:00:00Z"),
	}

	tests := []struct {
		name   string
		target string
		opts   []Option
		wantID int64
		found  bool
	}{
		{"between records", "2020-12-31T00:00:00Z", nil, 2, true},
		{"exactly on record", "2021-06-01T00:00:00Z", nil, 3, true},
		{"strict skips exact", "2021-06-01T00:00:00Z", []Option{StrictlyBefore()}, 2, true},
		{"before everything", "2018-01-01T00:00:00Z", nil, 0, false},
		{"tolerance excludes old", "2020-12-31T00:00:00Z", []Option{WithTolerance(24)}, 0, false},
		{"tolerance keeps near", "2020-06-01T12:00:00Z", []Option{WithTolerance(24)}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MostRecentPrior(cands, *at(tt.target), tt.opts...)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestMostRecentPriorSentinel(t *testing.T) {
	// A sensor with no install date is taken to have been in place since 1900.
	sensor := []Candidate[string]{cand(7, "")}

	got, ok := MostRecentPrior(sensor, *at("2020-01-01T00:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, SentinelInstallDate, got.Time())
	assert.Equal(t, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), SentinelInstallDate)

	// A dated replacement takes over after its install date only.
	sensor = append(sensor, cand(8, "2015-08-01T00:00:00Z"))
	got, _ = MostRecentPrior(sensor, *at("2014-01-01T00:00:00Z"))
	assert.Equal(t, int64(7), got.ID)
	got, _ = MostRecentPrior(sensor, *at("2016-01-01T00:00:00Z"))
	assert.Equal(t, int64(8), got.ID)
}

func TestMostRecentPriorTieBreak(t *testing.T) {
	cands := []Candidate[string]{cand(4, "2020-01-01T00:00:00Z"), cand(9, "2020-01-01T00:00:00Z"), cand(6, "2020-01-01T00:00:00Z")}
	got, ok := MostRecentPrior(cands, *at("2020-02-01T00:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, int64(9), got.ID)
}

func TestClosest(t *testing.T) {
	cands := []Candidate[string]{
		cand(1, "2020-01-01T00:00:00Z"),
		cand(2, "2020-01-03T00:00:00Z"),
		cand(3, "2020-01-10T00:00:00Z"),
	}

	got, ok := Closest(cands, *at("2020-01-02T18:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	got, ok = Closest(cands, *at("2020-01-09T00:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, int64(3), got.ID, "later candidates are eligible")

	_, ok = Closest(cands, *at("2020-02-01T00:00:00Z"), WithTolerance(48))
	assert.False(t, ok)
}

func TestClosestTieBreaksOnSmallerID(t *testing.T) {
	cands := []Candidate[string]{cand(5, "2020-01-03T00:00:00Z"), cand(2, "2020-01-01T00:00:00Z")}
	got, ok := Closest(cands, *at("2020-01-02T00:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)
}

func TestEmptyCandidatesAreNotFound(t *testing.T) {
	_, ok := MostRecentPrior[string](nil, time.Now())
	assert.False(t, ok)
	_, ok = Closest[string](nil, time.Now())
	assert.False(t, ok)
	assert.Empty(t, ByCloseness[string](nil, time.Now()))
}

func TestMatchingIsIdempotent(t *testing.T) {
	cands := []Candidate[string]{cand(1, "2020-01-01T00:00:00Z"), cand(2, "2020-03-01T00:00:00Z"), cand(3, "")}
	target := *at("2020-02-01T00:00:00Z")

	first, _ := MostRecentPrior(cands, target)
	second, _ := MostRecentPrior(cands, target)
	assert.Equal(t, first, second)

	c1, _ := Closest(cands, target)
	c2, _ := Closest(cands, target)
	assert.Equal(t, c1, c2)
}

func TestMostRecentPriorProperty(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	var cands []Candidate[string]
	for i := 0; i < 40; i++ {
		ts := base.Add(time.Duration((i*37)%90) * 24 * time.Hour)
		cands = append(cands, Candidate[string]{ID: int64(i), At: &ts})
	}
	for day := -5; day < 100; day += 3 {
		target := base.Add(time.Duration(day) * 24 * time.Hour)
		got, ok := MostRecentPrior(cands, target)
		if !ok {
			for _, c := range cands {
				assert.True(t, c.Time().After(target))
			}
			continue
		}
		assert.False(t, got.Time().After(target))
		for _, c := range cands {
			if !c.Time().After(target) {
				assert.False(t, c.Time().After(got.Time()))
			}
		}

		closest, ok := Closest(cands, target)
		require.True(t, ok)
		for _, c := range cands {
			assert.LessOrEqual(t, absDuration(target.Sub(closest.Time())), absDuration(target.Sub(c.Time())))
		}
	}
}

func TestByCloseness(t *testing.T) {
	cands := []Candidate[string]{
		cand(1, "2020-01-01T00:00:00Z"),
		cand(2, "2020-01-05T00:00:00Z"),
		cand(3, "2020-01-02T00:00:00Z"),
		cand(4, "2020-03-01T00:00:00Z"),
	}
	got := ByCloseness(cands, *at("2020-01-03T00:00:00Z"), WithToleranceDuration(72*time.Hour))
	ids := make([]int64, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}
