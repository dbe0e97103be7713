package timeutil

import (
	"math"
	"time"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/models"
)

// ExpiryThreshold is how long an unanswered request stays reviewable.
const ExpiryThreshold = 30 * 24 * time.Hour

const millisPerDay = 24 * 60 * 60 * 1000

// FormatDate renders a timestamp as a short month/day/year string for
// display, e.g. "Sep 1, 2026".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// CalculateDuration returns the number of days between start and end,
// rounded up. start == end yields 0; end before start yields a negative
// count, which callers are expected to tolerate.
func CalculateDuration(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	return int(math.Ceil(float64(ms) / float64(millisPerDay)))
}

// IsExpiredAt reports whether a request created at createdAt with the
// given status has passed the expiry threshold as of now. Only pending
// requests expire; responded requests keep their terminal status forever.
func IsExpiredAt(createdAt time.Time, status models.RequestStatus, now time.Time) bool {
	return status == models.StatusPending && createdAt.Before(now.Add(-ExpiryThreshold))
}

// IsExpired is IsExpiredAt against the current clock.
func IsExpired(createdAt time.Time, status models.RequestStatus) bool {
	return IsExpiredAt(createdAt, status, time.Now())
}
