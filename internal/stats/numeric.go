// Package stats provides the descriptive statistics used by the summarizer.
// Numeric functions take non-null values only; callers filter nulls.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean. ok is false for empty input.
func Mean(xs []float64) (mean float64, ok bool) {
	m, err := mstats.Mean(xs)
	if err != nil {
		return math.NaN(), false
	}
	return m, true
}

// Median returns the 50th percentile, NaN for empty input.
func Median(xs []float64) float64 {
	m, err := mstats.Median(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Min returns the smallest value, NaN for empty input.
func Min(xs []float64) float64 {
	m, err := mstats.Min(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Max returns the largest value, NaN for empty input.
func Max(xs []float64) float64 {
	m, err := mstats.Max(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Variance returns the sample variance (N-1 denominator). Constant input,
// including a single value, has variance 0; empty input is NaN.
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	if constant(xs) {
		return 0
	}
	return stat.Variance(xs, nil)
}

// StdDev returns the square root of the sample variance.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// IQR returns Q3 - Q1 using linear interpolation between order statistics.
func IQR(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return Quantile(sorted, 0.75) - Quantile(sorted, 0.25)
}

// ZeroPercent returns 100 * zeros / total. ok is false when total is 0.
func ZeroPercent(xs []float64, total int) (pct float64, ok bool) {
	if total == 0 {
		return math.NaN(), false
	}
	zeros := 0
	for _, x := range xs {
		if x == 0 {
			zeros++
		}
	}
	return float64(zeros) * 100 / float64(total), true
}

// Quantile interpolates linearly between the order statistics of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
