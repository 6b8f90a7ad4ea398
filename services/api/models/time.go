package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// naiveLayouts are accepted on input only so that a missing offset can be reported
// as such instead of as a parse failure.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// AwareTime is a timestamp decoded from client input that remembers whether a UTC offset
// was supplied.
type AwareTime struct {
	time.Time
	Naive bool
	raw   string
}

// ParseAwareTime parses an RFC3339 timestamp, or a naive one flagged as such.
func ParseAwareTime(s string) (AwareTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return AwareTime{Time: t, raw: s}, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return AwareTime{Time: t, Naive: true, raw: s}, nil
		}
	}
	return AwareTime{}, fmt.Errorf("invalid timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *AwareTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseAwareTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t AwareTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// String returns the value as the client sent it.
func (t AwareTime) String() string {
	if t.raw != "" {
		return t.raw
	}
	return t.Time.Format(time.RFC3339)
}

// Instant returns the UTC instant truncated to whole seconds.
func (t AwareTime) Instant() time.Time {
	return Normalize(t.Time)
}

// InstantPtr is Instant for optional timestamps.
func (t *AwareTime) InstantPtr() *time.Time {
	if t == nil {
		return nil
	}
	i := t.Instant()
	return &i
}

// Normalize truncates to whole seconds in UTC, the precision every stored instant uses.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// NormalizePtr is Normalize for optional instants.
func NormalizePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := Normalize(*t)
	return &n
}
