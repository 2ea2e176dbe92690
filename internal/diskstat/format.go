package diskstat

import (
	"math"
	"strconv"
)

// units are the size suffixes used by FormatSize, PB being the ceiling.
//
//nolint:gochecknoglobals // Lookup table
var units = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize renders a byte count with two decimals and a binary unit,
// e.g. 1536 -> "1.50 KB". Negative values are treated as zero.
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}

	value := float64(size)
	unit := 0

	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}

	return strconv.FormatFloat(value, 'f', 2, 64) + " " + units[unit]
}

// Percentage returns 100*part/total rounded half away from zero to two
// decimals and clamped to [0, 100]. A zero total yields 0.
func Percentage(part, total int64) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}

	pct := math.Round(float64(part)/float64(total)*100*100) / 100 //nolint:mnd // two decimals

	return math.Min(pct, 100) //nolint:mnd // upper bound
}

// FormatPercentage renders Percentage(part, total) with exactly two decimals.
func FormatPercentage(part, total int64) string {
	return strconv.FormatFloat(Percentage(part, total), 'f', 2, 64)
}
