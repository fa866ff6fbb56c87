package youtube

import (
	"time"

	"golang.org/x/time/rate"
)

// NewSourceLimiter builds the process-wide soft rate limit shared by all
// requests against one upstream: perMinute calls in a rolling 60-second
// window, callers sleeping until a token frees up when at the ceiling. This
// is self-throttling against the upstream and is independent of the per-user
// quota gate.
func NewSourceLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}
