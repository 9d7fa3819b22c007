package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a calendar date cannot be parsed.
var ErrInvalidDate = errors.New("invalid meeting date")

const (
	isoDateLayout     = "2006-01-02"
	displayDateLayout = "01/02/2006"
)

// Date is a calendar day with no time-of-day or location. All meeting
// comparisons happen at this granularity.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a date, normalizing out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate accepts YYYY-MM-DD and MM/DD/YYYY.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{isoDateLayout, displayDateLayout, "1/2/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q (use YYYY-MM-DD or MM/DD/YYYY)", ErrInvalidDate, value)
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool { return d == Date{} }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.year, d.month, d.day+n)
}

// String renders MM/DD/YYYY.
func (d Date) String() string {
	return d.at(time.UTC).Format(displayDateLayout)
}

// ISO renders YYYY-MM-DD.
func (d Date) ISO() string {
	return d.at(time.UTC).Format(isoDateLayout)
}

func (d Date) at(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// timing places a meeting date relative to the evaluator's current day.
type timing int

const (
	timingPast timing = iota - 1
	timingToday
	timingFuture
)

func timingOf(date Date, now time.Time) timing {
	return timing(date.Compare(DateOf(now)))
}
