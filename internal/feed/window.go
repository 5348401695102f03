package feed

import "time"

// WithinWindow reports whether an item published at the given time falls
// inside the recency window. A window of zero days admits everything,
// including items with future timestamps. The cutoff boundary is inclusive.
func WithinWindow(publishedAt time.Time, days int, now time.Time) bool {
	if days <= 0 {
		return true
	}
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	return !publishedAt.Before(cutoff)
}
