package util

import "time"

// DayLayout is the calendar-day format used for day buckets and the
// durable price history.
const DayLayout = "2006-01-02"

// DayBucket returns the UTC calendar day for a unix-seconds timestamp.
func DayBucket(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(DayLayout)
}

// Day returns the UTC calendar day for t.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
