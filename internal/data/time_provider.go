package data

import "time"

// TimeProvider supplies the timestamps repos write into created_at style columns.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the wall clock.
type RealTimeProvider struct{}

// Now returns the current system time.
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// FixedTimeProvider pins every write to one instant so repo tests can assert on stored dates.
type FixedTimeProvider struct {
	at time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider pinned to t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{at: t}
}

// Now returns the pinned time.
func (f *FixedTimeProvider) Now() time.Time {
	return f.at
}
