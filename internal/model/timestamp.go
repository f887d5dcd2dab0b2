package model

import "time"

// TimestampLayout is the stored form of every timestamp: local wall-clock
// time with second precision.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}

// ParseTimestamp parses a TimestampLayout string as local time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}

// NormalizeTime drops everything the stored form cannot represent, so a
// value survives a round trip through the store unchanged.
func NormalizeTime(t time.Time) time.Time {
	return t.In(time.Local).Truncate(time.Second)
}
