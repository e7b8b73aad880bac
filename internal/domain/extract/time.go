package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// durationKind tags the upstream encoding of a session-relative timestamp.
type durationKind int

const (
	// kindStructured is a duration-typed value ("00:01:23.456").
	kindStructured durationKind = iota
	// kindRawMillis is a raw integer duration in milliseconds.
	kindRawMillis
)

// SessionTime is a session-relative timestamp. The upstream source encodes
// it either as a structured duration string or as a raw integer duration;
// both reduce to the same seconds value here, so the branching stays at
// this one boundary instead of leaking into the pipeline.
type SessionTime struct {
	kind durationKind
	d    time.Duration
	raw  int64
}

// TimeFromDuration builds a SessionTime from a structured duration.
func TimeFromDuration(d time.Duration) SessionTime {
	return SessionTime{kind: kindStructured, d: d}
}

// TimeFromMillis builds a SessionTime from a raw integer millisecond count.
func TimeFromMillis(ms int64) SessionTime {
	return SessionTime{kind: kindRawMillis, raw: ms}
}

// Seconds reduces the timestamp to seconds as a float, regardless of the
// upstream encoding.
func (t SessionTime) Seconds() float64 {
	switch t.kind {
	case kindRawMillis:
		return float64(t.raw) / 1e3
	default:
		return t.d.Seconds()
	}
}

// UnmarshalJSON accepts either encoding: a JSON number is a raw integer
// millisecond duration, a JSON string is a structured duration in
// "15:04:05.999" or Go duration syntax.
func (t *SessionTime) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		// Raw durations are whole milliseconds; a fractional value would
		// lose precision under truncation, so it is rejected outright.
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: non-integral milliseconds %v", ErrBadTimestamp, v)
		}
		*t = TimeFromMillis(int64(v))
		return nil
	case string:
		d, err := parseClockDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadTimestamp, v)
		}
		*t = TimeFromDuration(d)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrBadTimestamp, string(data))
	}
}

// MarshalJSON re-emits the structured form for cache round-trips.
func (t SessionTime) MarshalJSON() ([]byte, error) {
	if t.kind == kindRawMillis {
		return json.Marshal(t.raw)
	}
	return json.Marshal(formatClockDuration(t.d))
}

// parseClockDuration parses "HH:MM:SS[.fff]" clock-style durations, falling
// back to Go duration syntax ("83.456s").
func parseClockDuration(s string) (time.Duration, error) {
	var h, m int
	var sec float64
	if n, err := fmt.Sscanf(s, "%d:%d:%f", &h, &m, &sec); err == nil && n == 3 {
		return time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(sec*float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

func formatClockDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}
