// Package stats provides the numerical routines behind the summary and
// popularity analyses: descriptive statistics, integration, least-squares
// fitting, kernel density estimation and Student's t-test.
package stats

import (
	"errors"
	"math"
	"slices"
)

// Sentinel errors returned by the estimators.
var (
	ErrLengthMismatch = errors.New("x and y lengths differ")
	ErrTooFewSamples  = errors.New("too few samples")
	ErrDegenerate     = errors.New("degenerate sample")
)

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return Sum(values) / float64(len(values))
}

// Variance returns the variance of values with ddof delta degrees of freedom,
// so ddof 0 is the population variance and ddof 1 the sample variance.
// Returns 0 when len(values) <= ddof.
func Variance(values []float64, ddof int) float64 {
	count := len(values)
	if count <= ddof {
		return 0
	}

	mean := Mean(values)

	var sumSq float64

	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}

	return sumSq / float64(count-ddof)
}

// SampleStdDev returns the standard deviation with Bessel's correction (÷(n−1)).
// Returns 0 for fewer than two values.
func SampleStdDev(values []float64) float64 {
	return math.Sqrt(Variance(values, 1))
}

// PercentileMedian is the percentile rank of the median.
const PercentileMedian = 0.5

// Percentile returns the p-th percentile of values using linear interpolation.
// p must be in [0, 1]. The input slice is not modified.
// Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	count := len(values)
	if count == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	idx := Clamp(p, 0, 1) * float64(count-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper {
		return sorted[lower]
	}

	frac := idx - float64(lower)

	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Median returns the 50th percentile of values.
func Median(values []float64) float64 {
	return Percentile(values, PercentileMedian)
}

// Clamp restricts val to the range [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	return max(lo, min(val, hi))
}

// Min returns the smallest of values, or 0 when empty.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return slices.Min(values)
}

// Max returns the largest of values, or 0 when empty.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return slices.Max(values)
}

// Sum returns the sum of values.
func Sum(values []float64) float64 {
	var total float64

	for _, v := range values {
		total += v
	}

	return total
}

// NonZero returns the elements of values that are not zero, in order.
func NonZero(values []float64) []float64 {
	out := make([]float64, 0, len(values))

	for _, v := range values {
		if v != 0 {
			out = append(out, v)
		}
	}

	return out
}
