package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestParseFrequency(t *testing.T) {
	for _, s := range []string{"D", "W", "M", "Q", "Y"} {
		f, err := ParseFrequency(s)
		require.NoError(t, err)
		assert.Equal(t, Frequency(s), f)
	}
	for _, s := range []string{"", "d", "H", "A"} {
		_, err := ParseFrequency(s)
		assert.ErrorIs(t, err, ErrInvalidFrequency)
	}
}

func TestBucketStart(t *testing.T) {
	ts := *at("2021-08-19T17:45:00-06:00") // 2021-08-19T23:45Z, a Thursday
	tests := []struct {
		f    Frequency
		want string
	}{
		{Daily, "2021-08-19T00:00:00Z"},
		{Weekly, "2021-08-16T00:00:00Z"},
		{Monthly, "2021-08-01T00:00:00Z"},
		{Quarterly, "2021-07-01T00:00:00Z"},
		{Yearly, "2021-01-01T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(string(tt.f), func(t *testing.T) {
			assert.Equal(t, *at(tt.want), tt.f.BucketStart(ts))
		})
	}

	// Before the epoch the buckets stay anchored to it.
	assert.Equal(t, *at("1969-12-31T00:00:00Z"), Daily.BucketStart(*at("1969-12-31T23:00:00Z")))
	assert.Equal(t, *at("1969-12-29T00:00:00Z"), Weekly.BucketStart(*at("1970-01-04T12:00:00Z")))
}

func TestAggregateSingleOneReadingPerDay(t *testing.T) {
	start := time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)
	var readings []Reading
	for i := 0; i < 30; i++ {
		readings = append(readings, Reading{At: start.AddDate(0, 0, i), Channel: 1, Value: float64(i) - 10})
	}

	rows, err := AggregateSingle(readings, Daily)
	require.NoError(t, err)
	require.Len(t, rows, 30)
	for i, r := range rows {
		assert.Equal(t, time.Date(2022, 1, 1+i, 0, 0, 0, 0, time.UTC), r.Period)
		assert.Equal(t, float64(i)-10, r.Value)
	}
}

func TestAggregateSingleIgnoresChannels(t *testing.T) {
	readings := []Reading{
		{At: *at("2022-03-01T01:00:00Z"), Channel: 1, Value: 1},
		{At: *at("2022-03-01T02:00:00Z"), Channel: 2, Value: 3},
		{At: *at("2022-03-02T02:00:00Z"), Channel: 2, Value: 5},
	}
	rows, err := AggregateSingle(readings, Monthly)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3.0, rows[0].Value)
}

func TestAggregateChannelsMonthlyOuterJoin(t *testing.T) {
	readings := []Reading{
		{At: *at("2023-01-05T00:00:00Z"), Channel: 1, Value: -4, Depth: f64(0.5)},
		{At: *at("2023-02-03T00:00:00Z"), Channel: 1, Value: -6, Depth: f64(0.5)},
		{At: *at("2023-01-10T00:00:00Z"), Channel: 2, Value: -2, Depth: f64(1.0)},
	}

	rows, err := AggregateChannels(readings, Monthly, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	jan, feb := rows[0], rows[1]
	assert.Equal(t, *at("2023-01-01T00:00:00Z"), jan.Period)
	require.Contains(t, jan.Channels, 1)
	require.Contains(t, jan.Channels, 2)
	assert.Equal(t, -4.0, jan.Channels[1].Value)
	assert.Equal(t, -2.0, jan.Channels[2].Value)
	assert.Equal(t, 1.0, *jan.Channels[2].Depth)

	assert.Equal(t, *at("2023-02-01T00:00:00Z"), feb.Period)
	assert.Equal(t, -6.0, feb.Channels[1].Value)
	assert.NotContains(t, feb.Channels, 2)
}

func TestAggregateChannelsDisjointPeriods(t *testing.T) {
	var readings []Reading
	for d := 0; d < 10; d++ {
		ts := time.Date(2020, 5, 1+d, 6, 0, 0, 0, time.UTC)
		ch := 1
		if d%2 == 1 {
			ch = 2
		}
		readings = append(readings, Reading{At: ts, Channel: ch, Value: float64(d)})
	}

	rows, err := AggregateChannels(readings, Daily, 0)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for i, r := range rows {
		assert.Len(t, r.Channels, 1, "row %d", i)
	}
}

func TestAggregateChannelsMeans(t *testing.T) {
	readings := []Reading{
		{At: *at("2021-01-04T00:00:00Z"), Channel: 3, Value: 1, Depth: f64(2)},
		{At: *at("2021-01-06T00:00:00Z"), Channel: 3, Value: 2},
		{At: *at("2021-01-10T23:59:59Z"), Channel: 3, Value: 6, Depth: f64(4)},
		{At: *at("2021-01-11T00:00:00Z"), Channel: 3, Value: 100},
	}
	rows, err := AggregateChannels(readings, Weekly, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3.0, rows[0].Channels[3].Value)
	assert.Equal(t, 3.0, *rows[0].Channels[3].Depth)
	assert.Nil(t, rows[1].Channels[3].Depth)
}

func TestAggregateChannelsLimits(t *testing.T) {
	readings := []Reading{
		{At: *at("2021-01-01T00:00:00Z"), Channel: 1, Value: 1},
		{At: *at("2021-01-01T00:00:00Z"), Channel: 2, Value: 1},
		{At: *at("2021-01-01T00:00:00Z"), Channel: 3, Value: 1},
	}
	_, err := AggregateChannels(readings, Daily, 2)
	assert.ErrorIs(t, err, ErrTooManyChannels)

	_, err = AggregateChannels(readings, Frequency("H"), 0)
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	rows, err := AggregateChannels(nil, Yearly, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
