package calculator

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

// DefaultHistogramBins matches the bin count of the return distribution chart.
const DefaultHistogramBins = 50

// ErrRangeOverflow means the sample spans more than float64 can hold, so no
// bin width exists.
var ErrRangeOverflow = errors.New("histogram range overflows float64")

// Histogram counts the finite values of sample into bins equal-width
// buckets spanning [min, max]. A constant sample is centred in a unit-wide
// range. An empty sample yields no bins.
func Histogram(sample []float64, bins int) ([]model.HistogramBin, error) {
	if bins <= 0 {
		return nil, errors.New("bins must be positive")
	}
	x := Finite(sample)
	if len(x) == 0 {
		return nil, nil
	}
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	if math.IsInf(hi-lo, 0) {
		return nil, ErrRangeOverflow
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// The top divider is exclusive, so nudge it above the maximum.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i] = model.HistogramBin{
			Lower: dividers[i],
			Upper: dividers[i+1],
			Count: int(counts[i]),
		}
	}
	out[bins-1].Upper = hi
	return out, nil
}
