package service

import "time"

// BillingHours rounds a parking duration up to whole billable hours.
// Exactly one hour bills as one hour; one second over starts the next.
func BillingHours(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return 0
	}
	return (secs + 3599) / 3600
}

// Fee computes the amount due for a stay that began at entry, at the given
// hourly rate.
func Fee(entry, now time.Time, hourlyRate int64) int64 {
	return BillingHours(now.Sub(entry)) * hourlyRate
}
