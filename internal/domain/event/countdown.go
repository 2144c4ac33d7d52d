package event

import (
	"fmt"
	"time"
)

// FormatCountdown renders a duration as a compact countdown string:
// "0s" for anything non-positive, "Ns" under a minute, "Mm Ss" under an
// hour, "Hh Mm Ss" otherwise. Sub-second precision is truncated, never
// rounded.
func FormatCountdown(d time.Duration) string {
	total := int64(d / time.Second)
	switch {
	case total <= 0:
		return "0s"
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
	}
}
