package ui

import "time"

const timestampLayout = "02 Jan, 2006 at 15:04:05 -07:00"

// FormatTimestamp renders an RFC 3339 timestamp in local time. Values that
// do not parse are returned unchanged.
func FormatTimestamp(s string) string {
	return FormatTimestampIn(s, time.Local)
}

func FormatTimestampIn(s string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.In(loc).Format(timestampLayout)
}
