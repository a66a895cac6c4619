package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// iso8601Layouts are the accepted extended ISO-8601 shapes, most specific
// first.
var iso8601Layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISO8601 parses s against the accepted extended ISO-8601 shapes.
// Shapes without a zone are taken as UTC.
func ParseISO8601(s string) (time.Time, error) {
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO8601 date: %q", s)
}

// ISOTime is a time.Time that accepts every extended ISO-8601 shape on
// input while still rendering RFC 3339 on output. Date fields use it so a
// value the request boundary accepted can never fail to decode.
type ISOTime struct {
	time.Time
}

// NewISOTime wraps t.
func NewISOTime(t time.Time) ISOTime {
	return ISOTime{Time: t}
}

func (t *ISOTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseISO8601(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Value implements driver.Valuer; the database stores a plain timestamp.
func (t ISOTime) Value() (driver.Value, error) {
	return t.Time, nil
}

// Scan implements sql.Scanner. Drivers with native time support hand back a
// time.Time; the string cases cover drivers that return raw column text.
func (t *ISOTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	}
	return fmt.Errorf("cannot scan %T into ISOTime", value)
}

func (t *ISOTime) scanString(s string) error {
	layouts := append([]string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}, iso8601Layouts...)
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into ISOTime", s)
}
