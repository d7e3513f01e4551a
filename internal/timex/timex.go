// Package timex holds JSON-friendly time types.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Duration decodes either a Go duration string ("5s") or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// UnixMillis is an instant encoded as milliseconds since the Unix epoch,
// the way browsers report Date.now(). Decoding also accepts RFC 3339 strings.
type UnixMillis struct {
	time.Time
}

func (m UnixMillis) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.UnixMilli())
}

func (m *UnixMillis) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		m.Time = time.UnixMilli(int64(value)).UTC()
		return nil
	case string:
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		m.Time = parsed.UTC()
		return nil
	default:
		return errors.New("invalid timestamp")
	}
}
