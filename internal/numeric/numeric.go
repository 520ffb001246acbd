package numeric

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// #region bounds
const (
	Min = 0.0
	Max = 100.0
)

// Clamp bounds n to [lo, hi]. NaN collapses to lo.
func Clamp(n, lo, hi float64) float64 {
	if math.IsNaN(n) {
		return lo
	}
	return math.Max(lo, math.Min(hi, n))
}

// Unit clamps n to the [0,100] range every demo input and score lives in.
func Unit(n float64) float64 {
	return Clamp(n, Min, Max)
}

// #endregion bounds

// #region aggregates
// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs ...float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopStdDev returns the population standard deviation of xs around mean.
func PopStdDev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// #endregion aggregates

// #region formatting
// Round rounds half up, so 2.5 -> 3 and -2.5 -> -2.
func Round(n float64) int {
	return int(math.Floor(n + 0.5))
}

// FmtPct renders n as a rounded percentage, e.g. "57%".
func FmtPct(n float64) string {
	return fmt.Sprintf("%d%%", Round(n))
}

// ISO formats t as a UTC timestamp with millisecond precision.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// DisplayTime turns an ISO timestamp into "YYYY-MM-DD HH:MM:SS" for log lines.
func DisplayTime(iso string) string {
	s := strings.Replace(iso, "T", " ", 1)
	if len(s) > 19 {
		s = s[:19]
	}
	return s
}

// #endregion formatting
