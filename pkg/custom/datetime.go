package custom

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Datetime represents a datetime. It is always rendered in UTC using RFC3339.
type Datetime time.Time

// NewDatetime creates a Datetime from t.
func NewDatetime(t time.Time) Datetime {
	return Datetime(t.UTC())
}

// Time returns the datetime as a time.Time.
func (d Datetime) Time() time.Time {
	return time.Time(d)
}

// MarshalJSON implements the json.Marshaler interface. A zero datetime is rendered as null.
func (d Datetime) MarshalJSON() ([]byte, error) {
	if time.Time(d).IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`%q`, time.Time(d).UTC().Format(time.RFC3339))), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Datetime) UnmarshalJSON(text []byte) error {
	s := strings.Trim(string(text), `"`)
	if s == "" || s == "null" {
		*d = Datetime{}
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid datetime: %w", err)
	}
	*d = Datetime(t.UTC())
	return nil
}

// Value implements the driver.Valuer interface.
func (d Datetime) Value() (driver.Value, error) {
	if time.Time(d).IsZero() {
		return nil, nil
	}
	return time.Time(d).UTC(), nil
}

// Scan implements the sql.Scanner interface.
func (d *Datetime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Datetime{}
	case time.Time:
		*d = Datetime(v.UTC())
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("invalid datetime: %w", err)
		}
		*d = Datetime(t.UTC())
	default:
		return fmt.Errorf("invalid scan, type %T not supported for %T", src, d)
	}
	return nil
}

// String implements the fmt.Stringer interface.
func (d Datetime) String() string {
	return time.Time(d).UTC().Format(time.RFC3339)
}
