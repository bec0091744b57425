package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Everything that needs "now" (the age breakdown, next occurrences, the calendar
// window, the refresh ticker) reads it through a Clock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. Used by the CLI --at flag.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
