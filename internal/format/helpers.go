package format

import (
	"fmt"
	"time"
)

// FmtMetric formats an evaluation metric (accuracy, F1, ...) with three
// decimal places, the precision the comparison gate works at.
func FmtMetric(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// FmtCount formats a sample count with a K suffix for readability.
func FmtCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%d", n)
}

// FmtDuration formats a duration as "Xm Ys" or "Y.Zs".
func FmtDuration(d time.Duration) string {
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
