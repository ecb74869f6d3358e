package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// window collects the non-NaN values of xs[i-size+1 .. i].
func window(xs []float64, i, size int) []float64 {
	start := i - size + 1
	if start < 0 {
		start = 0
	}
	vals := make([]float64, 0, i-start+1)
	for j := start; j <= i; j++ {
		if !math.IsNaN(xs[j]) {
			vals = append(vals, xs[j])
		}
	}
	return vals
}

// RollingMean computes the trailing mean of xs over size periods. Missing
// values are skipped; a position with fewer than minPeriods values is NaN.
// With minPeriods = 1 the window shrinks at the start of the series.
func RollingMean(xs []float64, size, minPeriods int) ([]float64, error) {
	if size <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(xs))
	for i := range xs {
		vals := window(xs, i, size)
		if len(vals) == 0 || len(vals) < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(vals, nil)
	}
	return out, nil
}

// MovingAverage returns the price moving average with a shrinking window
// at the start of the series, so the first value equals the first price.
func MovingAverage(prices []float64, size int) ([]float64, error) {
	return RollingMean(prices, size, 1)
}
