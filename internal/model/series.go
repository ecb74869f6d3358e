package model

import "time"

// DerivedSeries holds the per-date series computed from a selection view.
// All slices share the selection's length and order; NaN marks an
// undefined value.
type DerivedSeries struct {
	Dates         []time.Time
	Price         []float64
	MovingAverage []float64
	Return        []float64
	LogReturn     []float64
	Volatility    []float64
}

// Len returns the number of aligned positions.
func (s *DerivedSeries) Len() int { return len(s.Dates) }

// HistogramBin is one equal-width bucket of a return distribution.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Summary holds header statistics for the selected price line.
type Summary struct {
	First       float64 `json:"first"`
	Last        float64 `json:"last"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Position    float64 `json:"position"` // 0.0 ~ 1.0 within [Low, High]
	TotalReturn float64 `json:"total_return"`
}
