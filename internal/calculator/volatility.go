package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// VolatilityWindow is the trailing window of the rolling volatility.
	VolatilityWindow = 21
	// TradingPeriodsPerYear annualizes a per-period standard deviation.
	TradingPeriodsPerYear = 252
)

// RollingStd computes the trailing sample standard deviation (N-1) of xs
// over size periods, skipping missing values. Positions with fewer than
// minPeriods values, or fewer than two, are NaN.
func RollingStd(xs []float64, size, minPeriods int) ([]float64, error) {
	if size <= 0 {
		return nil, errors.New("window must be positive")
	}
	return rollingStd(xs, size, minPeriods), nil
}

func rollingStd(xs []float64, size, minPeriods int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		vals := window(xs, i, size)
		if len(vals) < 2 || len(vals) < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.StdDev(vals, nil)
	}
	return out
}

// RollingVolatility annualizes the 21-period rolling standard deviation of
// log returns by sqrt(252).
func RollingVolatility(logReturns []float64) []float64 {
	std := rollingStd(logReturns, VolatilityWindow, 1)
	scale := math.Sqrt(TradingPeriodsPerYear)
	for i := range std {
		std[i] *= scale
	}
	return std
}
