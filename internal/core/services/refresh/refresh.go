// Package refresh computes the daily refresh instant and relative time labels.
package refresh

import (
	"fmt"
	"time"
)

// DefaultHour is the local hour of the daily hiscores refresh.
const DefaultHour = 6

// NextDailyRefresh returns the next hour:00 in loc strictly after ref. When
// ref's local hour is already at or past hour, that is tomorrow's occurrence.
func NextDailyRefresh(ref time.Time, hour int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := ref.In(loc)
	day := local.Day()
	if local.Hour() >= hour {
		day++
	}
	return time.Date(local.Year(), local.Month(), day, hour, 0, 0, 0, loc)
}

// RelativeAgo describes how long before now t was.
func RelativeAgo(t, now time.Time) string {
	d := max(now.Sub(t), 0)
	if d < time.Minute {
		return "just now"
	}
	return bucket(d) + " ago"
}

// RelativeUntil describes how long after now t is.
func RelativeUntil(t, now time.Time) string {
	d := max(t.Sub(now), 0)
	if d < time.Minute {
		return "any moment now"
	}
	return "in " + bucket(d)
}

func bucket(d time.Duration) string {
	switch {
	case d < time.Hour:
		return plural(int(d/time.Minute), "min")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
