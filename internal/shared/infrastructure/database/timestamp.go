package database

import (
	"fmt"
	"time"
)

// TimestampLayout is the fixed-width UTC layout used for timestamps stored
// in SQLite TEXT columns. Values in this layout sort lexically in time order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

// FormatTimestamp renders t in TimestampLayout after converting it to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// TimeArg converts t into a query argument for the given driver. Postgres
// receives a native time; SQLite receives FormatTimestamp text.
func TimeArg(driver Driver, t time.Time) any {
	if driver == DriverSQLite {
		return FormatTimestamp(t)
	}
	return t.UTC()
}

// Timestamp scans a nullable timestamp from either a native TIMESTAMPTZ
// column or a SQLite text column.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = Timestamp{Time: v, Valid: true}
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *Timestamp) parse(value string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			*t = Timestamp{Time: parsed, Valid: true}
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", value)
}

// Ptr returns nil for NULL and a pointer to the time otherwise.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
