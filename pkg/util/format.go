package util

import (
	"fmt"
	"time"
)

// FormatTimespan renders a duration at human scale. Whole units are rendered
// without fractions (10s, 5m, 2h, 1d); sub-second durations fall through to
// ns/us/ms. The suffix is appended verbatim.
func FormatTimespan(d time.Duration, suffix string) string {
	switch {
	case d == 0:
		return "0s" + suffix
	case d < time.Microsecond:
		return fmt.Sprintf("%dns%s", d.Nanoseconds(), suffix)
	case d < time.Millisecond:
		return fmt.Sprintf("%dus%s", d.Microseconds(), suffix)
	case d < time.Second:
		return fmt.Sprintf("%dms%s", d.Milliseconds(), suffix)
	case d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd%s", d/(24*time.Hour), suffix)
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh%s", d/time.Hour, suffix)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm%s", d/time.Minute, suffix)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds%s", d/time.Second, suffix)
	default:
		return fmt.Sprintf("%.1fs%s", d.Seconds(), suffix)
	}
}

// FormatBytes renders a byte count at human scale (B, KB, MB, ...). Scaled
// values keep one decimal. The suffix is appended verbatim.
func FormatBytes(n int64, suffix string) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB%s", n, suffix)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB%s", float64(n)/float64(div), "KMGTPE"[exp], suffix)
}
