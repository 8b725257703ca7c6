package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatCount renders a head count rounded to the nearest whole person with
// thousands separators, e.g. 685878 -> "685,878".
func FormatCount(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 0, 64)
	if n := len(s); n > 3 {
		out := make([]byte, 0, n+n/3)
		lead := n % 3
		if lead == 0 {
			lead = 3
		}
		out = append(out, s[:lead]...)
		for i := lead; i < n; i += 3 {
			out = append(out, ',')
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if v < 0 && s != "0" {
		return "-" + s
	}
	return s
}

// FormatPercent renders a ratio in [0, 1] as a percentage without trailing
// zeros, e.g. 0.1 -> "10", 0.014 -> "1.4".
func FormatPercent(ratio float64) string {
	pct := math.Round(ratio*1e6) / 1e4
	return strconv.FormatFloat(pct, 'f', -1, 64)
}
