package types

import (
	"math"
	"time"
)

// DateRange is a closed interval [Start, End]
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange creates a range, rejecting an end before the start
func NewDateRange(start, end time.Time) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: start, end: end}, nil
}

// Today returns [midnight, next midnight] in the location of now
func Today(now time.Time) DateRange {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return DateRange{start: start, end: start.AddDate(0, 0, 1)}
}

// ThisMonth returns the first instant to the last millisecond of now's month
func ThisMonth(now time.Time) DateRange {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return DateRange{start: start, end: end}
}

func (r DateRange) Start() time.Time {
	return r.start
}

func (r DateRange) End() time.Time {
	return r.end
}

// Includes reports whether t falls inside the range, bounds included
func (r DateRange) Includes(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// Overlaps reports whether the two ranges share at least one instant
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !r.end.Before(other.start)
}

// DurationInDays returns the span rounded up to whole days
func (r DateRange) DurationInDays() int {
	d := r.end.Sub(r.start)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

func (r DateRange) Equals(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

func (r DateRange) String() string {
	return r.start.UTC().Format(time.RFC3339Nano) + " - " + r.end.UTC().Format(time.RFC3339Nano)
}
