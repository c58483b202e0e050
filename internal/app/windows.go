package app

import (
	"time"

	"guidefeed/internal/domain"
)

// MaxGuideDays is the provider's horizon; it serves nothing further
// ahead, so requested day counts are clamped here, not configurable.
const MaxGuideDays = 8

// ClampDays bounds a configured day count to [1, MaxGuideDays].
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxGuideDays {
		return MaxGuideDays
	}
	return days
}

// DayWindowFor computes the UTC query window for one guide day relative
// to a reference instant. The reference is captured once per request so
// a slow multi-day fetch sequence doesn't drift across a date boundary.
//
// Day N runs from UTC-midnight+N days+04:00 to UTC-midnight+N+1 days+03:59.
// The one-minute seam between 03:59 and the next day's 04:00 is carried
// over from the original windowing convention and must stay as-is.
func DayWindowFor(now time.Time, dayOffset int) domain.DayWindow {
	midnight := now.UTC().Truncate(24 * time.Hour)
	return domain.DayWindow{
		DayOffset: dayOffset,
		StartUTC:  midnight.Add(time.Duration(dayOffset)*24*time.Hour + 4*time.Hour),
		EndUTC:    midnight.Add(time.Duration(dayOffset+1)*24*time.Hour + 3*time.Hour + 59*time.Minute),
	}
}
