// Package export reads logger exports in the date_time,channel,value CSV layout.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

var header = []string{"date_time", "channel", "value"}

// Reading is one row of an export.
type Reading struct {
	Line     int
	DateTime models.AwareTime
	Channel  int
	Value    float64
}

// Result holds the parsed readings and the rows dropped as logger error values.
type Result struct {
	Readings []Reading
	Missing  int
}

// Read parses an export. Values at or below missingBelow are logger error codes and are
// counted instead of returned.
func Read(r io.Reader, missingBelow float64) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, errors.New("export is empty")
	}
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(first[i]), "\ufeff"), col) {
			return Result{}, fmt.Errorf("unexpected header %q, want %s", strings.Join(first, ","), strings.Join(header, ","))
		}
	}

	var res Result
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}
		line, _ := cr.FieldPos(0)

		ts, err := models.ParseAwareTime(rec[0])
		if err != nil {
			return Result{}, fmt.Errorf("line %d: %w", line, err)
		}
		if ts.Naive {
			return Result{}, fmt.Errorf("line %d: %s is not time zone aware", line, rec[0])
		}
		channel, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil || channel <= 0 {
			return Result{}, fmt.Errorf("line %d: invalid channel %q", line, rec[1])
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return Result{}, fmt.Errorf("line %d: invalid value %q", line, rec[2])
		}
		if value <= missingBelow {
			res.Missing++
			continue
		}
		res.Readings = append(res.Readings, Reading{Line: line, DateTime: ts, Channel: channel, Value: value})
	}
	return res, nil
}

// Channels returns the distinct channels in first-seen order.
func (r Result) Channels() []int {
	seen := make(map[int]bool)
	var out []int
	for _, rd := range r.Readings {
		if !seen[rd.Channel] {
			seen[rd.Channel] = true
			out = append(out, rd.Channel)
		}
	}
	return out
}
