package services

import "time"

// Clock supplies timestamps for stored records.
type Clock func() time.Time

// SystemClock is UTC wall time truncated to milliseconds, the coarsest
// resolution any backing store keeps.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// nextUpdate returns now, or prev+1ms when the clock has not moved past
// prev, so updatedAt strictly increases.
func nextUpdate(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}
