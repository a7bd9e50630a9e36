package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day stored in a DATE column and rendered as YYYY-MM-DD.
// Drivers disagree on what they hand back for DATE (time.Time, []byte, string),
// so Scan accepts all three.
type Date string

func DateOf(t time.Time) Date { return Date(t.Format(DateLayout)) }

func (Date) GormDataType() string { return "date" }

func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

func (d *Date) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = DateOf(x)
	case []byte:
		return d.parse(string(x))
	case string:
		return d.parse(x)
	default:
		return fmt.Errorf("scan date: unsupported type %T", v)
	}
	return nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = ""
		return nil
	}
	return d.parse(s)
}

func (d *Date) parse(s string) error {
	if t, err := time.Parse(DateLayout, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	// sqlite hands back "2006-01-02 00:00:00+00:00" for date columns it did not parse
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			*d = DateOf(t)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

func (d Date) String() string { return string(d) }

// ParseDate validates a YYYY-MM-DD query value.
func ParseDate(s string) (Date, error) {
	var d Date
	if err := d.parse(s); err != nil {
		return "", err
	}
	return d, nil
}
