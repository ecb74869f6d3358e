package calculator

import (
	"errors"
	"math"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

// PriceRange scans prices and returns the high and low, ignoring missing values.
func PriceRange(prices []float64) (high, low float64, err error) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range prices {
		if math.IsNaN(p) {
			continue
		}
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}
	if math.IsInf(high, -1) {
		return 0, 0, errors.New("no prices provided")
	}
	return high, low, nil
}

// Summarize computes the header statistics of a selected price line.
// Position is where the last price sits between the low and the high.
func Summarize(prices []float64) (*model.Summary, error) {
	p := Finite(prices)
	if len(p) == 0 {
		return nil, errors.New("no prices provided")
	}
	high, low, err := PriceRange(p)
	if err != nil {
		return nil, err
	}
	first, last := p[0], p[len(p)-1]
	// A flat line sits in the middle of its range.
	pos := 0.5
	if high > low {
		pos = (last - low) / (high - low)
	}
	total := math.NaN()
	if first > 0 {
		total = last/first - 1
	}
	return &model.Summary{
		First:       first,
		Last:        last,
		High:        high,
		Low:         low,
		Position:    pos,
		TotalReturn: total,
	}, nil
}
