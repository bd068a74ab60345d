package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the canonical stored form: UTC, microsecond precision,
// fixed width so stored values sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// legacyLayouts are accepted on read for rows written by older clients.
// Layouts without a zone are interpreted as UTC.
var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a point in time persisted as text.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to the stored precision.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// NewTimestamp normalizes t to UTC at microsecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

// ParseTimestamp parses the canonical layout, falling back to legacy ISO-8601 forms.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return NewTimestamp(t), nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("malformed timestamp %q", s)
}

// String renders the canonical layout.
func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseTimestamp(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case time.Time:
		*t = NewTimestamp(v)
	case nil:
		*t = Timestamp{}
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
