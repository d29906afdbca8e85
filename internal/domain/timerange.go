package domain

import "time"

// TimeRange is a half-open time interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the range end is strictly after its start
func (r TimeRange) IsValid() bool {
	return r.End.After(r.Start)
}

// Overlaps reports whether two half-open ranges intersect.
// A booking ending exactly when another starts does not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the given moment falls inside the range
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// DurationHours returns the wall-clock span of the range in whole hours,
// rounded up. A span of exactly one hour yields 1, 61 minutes yield 2.
func (r TimeRange) DurationHours() int {
	d := r.End.Sub(r.Start)
	if d <= 0 {
		return 0
	}
	hours := int(d / time.Hour)
	if d%time.Hour > 0 {
		hours++
	}
	return hours
}
