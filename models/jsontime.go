package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// JSONTime wraps time.Time so we can control both
// JSON un/marshaling and SQL driver encoding.
type JSONTime time.Time

// UnmarshalJSON lets us parse either RFC3339 ("2025-05-16T15:32:25Z")
// or the shorter form ("2025-05-16T15:32:25.000") or microseconds ("2025-05-16T15:32:25.181226").
func (jt *JSONTime) UnmarshalJSON(b []byte) error {
	// strip quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	// try full RFC3339 with nanoseconds (handles Z, +00:00, etc.)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*jt = JSONTime(t)
		return nil
	}

	// try full RFC3339 (standard format with timezone)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*jt = JSONTime(t)
		return nil
	}

	// try with microseconds (6 decimal places) - no timezone
	const layoutMicro = "2006-01-02T15:04:05.999999"
	if t, err := time.Parse(layoutMicro, s); err == nil {
		*jt = JSONTime(t)
		return nil
	}

	// fallback to millisecond-precision form (3 decimal places)
	const layoutMilli = "2006-01-02T15:04:05.000"
	if t, err := time.Parse(layoutMilli, s); err == nil {
		*jt = JSONTime(t)
		return nil
	}

	// try without fractional seconds
	const layoutNoFrac = "2006-01-02T15:04:05"
	t, err := time.Parse(layoutNoFrac, s)
	if err != nil {
		return fmt.Errorf("JSONTime.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	*jt = JSONTime(t)
	return nil
}

// MarshalJSON always emits full RFC3339 ("...Z").
func (jt JSONTime) MarshalJSON() ([]byte, error) {
	t := time.Time(jt)
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// Value implements driver.Valuer so gorm can store the wrapped time.
func (jt JSONTime) Value() (driver.Value, error) {
	return time.Time(jt), nil
}

// Scan implements sql.Scanner.
func (jt *JSONTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*jt = JSONTime(v)
		return nil
	case nil:
		*jt = JSONTime(time.Time{})
		return nil
	default:
		return fmt.Errorf("JSONTime.Scan: unsupported type %T", value)
	}
}

// JSONDate is a plain calendar date ("2024-01-10") with no time component.
// Planning and journal rows key on it; the week partitioner compares it as a
// string.
type JSONDate string

const dateLayout = "2006-01-02"

// UnmarshalJSON accepts "YYYY-MM-DD" or a full timestamp, keeping only the
// date part.
func (jd *JSONDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*jd = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		*jd = ""
		return nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("JSONDate.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	*jd = JSONDate(s)
	return nil
}

func (jd JSONDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + string(jd) + `"`), nil
}

// Time parses the date at midnight UTC.
func (jd JSONDate) Time() (time.Time, error) {
	return time.Parse(dateLayout, string(jd))
}

// Value implements driver.Valuer for date columns.
func (jd JSONDate) Value() (driver.Value, error) {
	return jd.Time()
}

// Scan implements sql.Scanner.
func (jd *JSONDate) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*jd = JSONDate(v.Format(dateLayout))
		return nil
	case string:
		*jd = JSONDate(v)
		return nil
	case []byte:
		*jd = JSONDate(string(v))
		return nil
	case nil:
		*jd = ""
		return nil
	default:
		return fmt.Errorf("JSONDate.Scan: unsupported type %T", value)
	}
}
