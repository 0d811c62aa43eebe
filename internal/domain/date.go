package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the accepted input forms, most specific first
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date accepts either a calendar date ("2024-09-20") or a full RFC 3339
// timestamp in request bodies. Values are normalised to UTC.
type Date struct {
	time.Time
}

// NewDate wraps t as a Date
func NewDate(t time.Time) *Date {
	return &Date{Time: t.UTC()}
}

// ParseDate parses s using the accepted input layouts
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
}

// IsDateOnly reports whether s names a calendar day without a time part
func IsDateOnly(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

// Ptr returns the wrapped time, or nil for a nil Date
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
