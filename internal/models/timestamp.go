package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a UTC time that marshals as RFC 3339, keeping fractional
// seconds, and also accepts plain dates (2006-01-02) when decoding, which
// older exports contain.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to the second.
func Now() Timestamp {
	return Timestamp{time.Now().UTC().Truncate(time.Second)}
}

// MarshalJSON encodes the zero value as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts null, RFC 3339 and date-only strings.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{parsed.UTC()}
			return nil
		}
	}
	return fmt.Errorf("decode timestamp: unsupported format %q", s)
}
