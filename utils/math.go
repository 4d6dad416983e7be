package utils

import (
	"slices"
)

// Median returns the median of values, averaging the two middle values for an even count.
// An empty slice has median 0. values is not modified.
func Median(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// Mean returns sum / count, or 0 when count is 0
func Mean(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// Ratio returns part / whole, or 0 when whole is 0
func Ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

// MaxInt returns the largest value, or 0 for an empty slice
func MaxInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}
