package clock

import "time"

// System reads the wall clock. It is the production domain.Clock.
type System struct{}

// Now returns the current UTC time
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a settable clock for tests
type Fixed struct {
	Current time.Time
}

// Now returns the configured instant
func (f *Fixed) Now() time.Time {
	return f.Current
}

// Advance moves the fixed clock forward
func (f *Fixed) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
