package temporal

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Frequency is a calendar bucketing granularity.
type Frequency string

const (
	Daily     Frequency = "D"
	Weekly    Frequency = "W"
	Monthly   Frequency = "M"
	Quarterly Frequency = "Q"
	Yearly    Frequency = "Y"
)

// DefaultMaxChannels bounds the number of distinct channels one aggregate may carry.
const DefaultMaxChannels = 64

var (
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrTooManyChannels  = errors.New("too many channels")
)

// epochMonday is the first ISO week start after the Unix epoch.
var epochMonday = time.Date(1970, 1, 5, 0, 0, 0, 0, time.UTC)

// ParseFrequency accepts D, W, M, Q or Y.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return f, nil
	}
	return "", fmt.Errorf("%w: %s not in [D, W, M, Q, Y]", ErrInvalidFrequency, s)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// BucketStart returns the start of the UTC period containing t.
func (f Frequency) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	switch f {
	case Daily:
		days := floorDiv(t.Unix(), 86400)
		return time.Unix(days*86400, 0).UTC()
	case Weekly:
		const week = 7 * 86400
		weeks := floorDiv(t.Unix()-epochMonday.Unix(), week)
		return time.Unix(epochMonday.Unix()+weeks*week, 0).UTC()
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Quarterly:
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Reading is one observation on a channel.
type Reading struct {
	At      time.Time
	Channel int
	Value   float64
	Depth   *float64
}

// ChannelMean is the mean value and depth of one channel over a period.
type ChannelMean struct {
	Value float64  `json:"temperature"`
	Depth *float64 `json:"depth,omitempty"`
}

// ChannelRow is one period with the means of every channel that reported in it.
// Channels without readings in the period are absent from the map.
type ChannelRow struct {
	Period   time.Time           `json:"date"`
	Channels map[int]ChannelMean `json:"sensors"`
}

// MeanRow is one period of a single-column aggregate.
type MeanRow struct {
	Period time.Time `json:"date"`
	Value  float64   `json:"temperature"`
}

type accumulator struct {
	sum, depthSum float64
	n, depthN     int
}

func (a *accumulator) add(r Reading) {
	a.sum += r.Value
	a.n++
	if r.Depth != nil {
		a.depthSum += *r.Depth
		a.depthN++
	}
}

func (a accumulator) mean() ChannelMean {
	m := ChannelMean{Value: a.sum / float64(a.n)}
	if a.depthN > 0 {
		d := a.depthSum / float64(a.depthN)
		m.Depth = &d
	}
	return m
}

// AggregateChannels buckets readings per channel and outer-joins the channel series on period
// start. Rows come back in ascending period order.
func AggregateChannels(readings []Reading, f Frequency, maxChannels int) ([]ChannelRow, error) {
	if _, err := ParseFrequency(string(f)); err != nil {
		return nil, err
	}
	if maxChannels <= 0 {
		maxChannels = DefaultMaxChannels
	}

	type key struct {
		period  int64
		channel int
	}
	acc := make(map[key]*accumulator)
	channels := make(map[int]struct{})
	for _, r := range readings {
		channels[r.Channel] = struct{}{}
		if len(channels) > maxChannels {
			return nil, fmt.Errorf("%w: more than %d distinct channels", ErrTooManyChannels, maxChannels)
		}
		k := key{period: f.BucketStart(r.At).Unix(), channel: r.Channel}
		a, ok := acc[k]
		if !ok {
			a = &accumulator{}
			acc[k] = a
		}
		a.add(r)
	}

	rows := make(map[int64]*ChannelRow)
	for k, a := range acc {
		row, ok := rows[k.period]
		if !ok {
			row = &ChannelRow{Period: time.Unix(k.period, 0).UTC(), Channels: make(map[int]ChannelMean)}
			rows[k.period] = row
		}
		row.Channels[k.channel] = a.mean()
	}

	periods := make([]int64, 0, len(rows))
	for p := range rows {
		periods = append(periods, p)
	}
	slices.Sort(periods)

	out := make([]ChannelRow, 0, len(periods))
	for _, p := range periods {
		out = append(out, *rows[p])
	}
	return out, nil
}

// AggregateSingle buckets readings into one mean column regardless of channel.
func AggregateSingle(readings []Reading, f Frequency) ([]MeanRow, error) {
	if _, err := ParseFrequency(string(f)); err != nil {
		return nil, err
	}
	acc := make(map[int64]*accumulator)
	for _, r := range readings {
		p := f.BucketStart(r.At).Unix()
		a, ok := acc[p]
		if !ok {
			a = &accumulator{}
			acc[p] = a
		}
		a.add(r)
	}

	periods := make([]int64, 0, len(acc))
	for p := range acc {
		periods = append(periods, p)
	}
	slices.Sort(periods)

	out := make([]MeanRow, 0, len(periods))
	for _, p := range periods {
		out = append(out, MeanRow{Period: time.Unix(p, 0).UTC(), Value: acc[p].mean().Value})
	}
	return out, nil
}
