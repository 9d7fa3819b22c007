package domain

import "time"

// Clock supplies the current time. Handlers take one so tests can pin "now".
type Clock func() time.Time

// SystemClock reads the local wall clock.
func SystemClock() time.Time { return time.Now() }

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Now returns the clock reading, falling back to the system clock when nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return SystemClock()
	}
	return c()
}
