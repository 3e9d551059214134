package printer

import (
	"fmt"
	"time"
)

var agoUnits = []struct {
	name string
	size time.Duration
}{
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// Ago returns how long before now t happened, using its largest unit.
// Examples: "just now", "1 minute ago", "3 days ago".
func Ago(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		return "in the future"
	}

	for _, u := range agoUnits {
		n := int(diff / u.size)
		switch {
		case n == 1:
			return fmt.Sprintf("1 %s ago", u.name)
		case n > 1:
			return fmt.Sprintf("%d %ss ago", n, u.name)
		}
	}

	return "just now"
}

// FormatTimestamp returns a formatted timestamp string in UTC.
// Format: "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
