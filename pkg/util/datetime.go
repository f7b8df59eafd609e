package util

import (
	"fmt"
	"time"
)

const (
	ClockFormat   = "15:04:05"
	ISO8601Format = "2006-01-02T15:04:05Z"
)

func TimeToISO8601Str(t time.Time) string {
	return t.UTC().Format(ISO8601Format)
}

func FormatClock(t time.Time) string {
	return t.Format(ClockFormat)
}

// FormatSince renders how long ago t was, at second precision.
func FormatSince(now, t time.Time) string {
	d := now.Sub(t).Truncate(time.Second)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
