package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the date-only form older ledger documents store.
const DayLayout = "2006-01-02"

// Date is a timestamp that also reads date-only strings. It is written
// back as RFC 3339.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, DayLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", raw)
}
