// services/dates.go - Calendar-Date Helpers
//
// Dates are handled date-only in "2006-01-02" form so comparisons are
// plain string compares. "Today" is always derived from an injected
// clock value, never from ambient wall time.
package services

import (
	"time"
)

const dateLayout = "2006-01-02"

// FormatDate renders t as a date-only string.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate validates a date-only string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// LocalToday derives the member's current calendar date from now.
// Resolution order: IANA zone, explicit UTC offset in minutes, the
// legacy sign-inverted offset from old clients, then server UTC.
func LocalToday(timezone string, utcOffsetMinutes, legacyUTCOffset *int, now time.Time) string {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err == nil {
			return now.In(loc).Format(dateLayout)
		}
	}
	if utcOffsetMinutes != nil {
		return now.UTC().Add(time.Duration(*utcOffsetMinutes) * time.Minute).Format(dateLayout)
	}
	if legacyUTCOffset != nil {
		// Old clients sent the offset with the sign flipped.
		return now.UTC().Add(time.Duration(-*legacyUTCOffset) * time.Minute).Format(dateLayout)
	}
	return now.UTC().Format(dateLayout)
}
