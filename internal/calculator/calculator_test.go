package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

func rows(prices ...float64) []model.Row {
	out := make([]model.Row, len(prices))
	for i, p := range prices {
		out[i] = model.Row{
			Date:   time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
			Ticker: "A",
			Price:  p,
		}
	}
	return out
}

func TestDerive_WorkedExample(t *testing.T) {
	s, err := Derive(rows(100, 110, 121), 2)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	assert.True(t, math.IsNaN(s.Return[0]))
	assert.InDelta(t, 0.10, s.Return[1], 1e-12)
	assert.InDelta(t, 0.10, s.Return[2], 1e-12)

	assert.True(t, math.IsNaN(s.LogReturn[0]))
	assert.InDelta(t, math.Log(1.1), s.LogReturn[1], 1e-12)
	assert.InDelta(t, math.Log(1.1), s.LogReturn[2], 1e-12)

	assert.InDeltaSlice(t, []float64{100, 105, 115.5}, s.MovingAverage, 1e-9)

	// volatility: no sample, one sample, two identical samples
	assert.True(t, math.IsNaN(s.Volatility[0]))
	assert.True(t, math.IsNaN(s.Volatility[1]))
	assert.InDelta(t, 0, s.Volatility[2], 1e-12)
}

func TestDerive_InvalidWindow(t *testing.T) {
	_, err := Derive(rows(1, 2), 0)
	assert.Error(t, err)
}

func TestDerive_Empty(t *testing.T) {
	s, err := Derive(nil, DefaultMAWindow)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestMovingAverage_FirstValueIsPrice(t *testing.T) {
	for _, w := range []int{1, 5, 20, 60} {
		ma, err := MovingAverage([]float64{42, 43, 44}, w)
		require.NoError(t, err)
		assert.Equal(t, 42.0, ma[0], "window %d", w)
	}
}

func TestMovingAverage_FullWindow(t *testing.T) {
	ma, err := MovingAverage([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2, 3, 4, 5}, ma, 1e-12)
}

func TestRollingMean_SkipsMissing(t *testing.T) {
	nan := math.NaN()
	out, err := RollingMean([]float64{nan, 2, nan, 4}, 2, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 2.0, out[1])
	assert.Equal(t, 2.0, out[2])
	assert.Equal(t, 4.0, out[3])

	out, err = RollingMean([]float64{1, 2, 3}, 3, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.Equal(t, 2.0, out[2])
}

func TestReturns_DegenerateInputs(t *testing.T) {
	nan := math.NaN()
	prices := []float64{10, 0, 5, -5, nan, 8}

	pct := PctChange(prices)
	assert.True(t, math.IsNaN(pct[0]))
	assert.Equal(t, -1.0, pct[1])
	assert.True(t, math.IsNaN(pct[2]), "division by zero price")
	assert.Equal(t, -2.0, pct[3])
	assert.True(t, math.IsNaN(pct[4]))
	assert.True(t, math.IsNaN(pct[5]))

	lr := LogReturns(prices)
	assert.True(t, math.IsNaN(lr[0]))
	assert.True(t, math.IsNaN(lr[1]), "log of zero ratio")
	assert.True(t, math.IsNaN(lr[2]), "zero prior")
	assert.True(t, math.IsNaN(lr[3]), "negative ratio")
	assert.True(t, math.IsNaN(lr[4]))
	assert.True(t, math.IsNaN(lr[5]))
}

func TestReturns_FiniteForPositivePrices(t *testing.T) {
	prices := []float64{5, 7, 6.5, 9, 9, 1e-3, 250}
	pct, lr := PctChange(prices), LogReturns(prices)
	for i := 1; i < len(prices); i++ {
		assert.False(t, math.IsNaN(pct[i]) || math.IsInf(pct[i], 0), "pct[%d]", i)
		assert.False(t, math.IsNaN(lr[i]) || math.IsInf(lr[i], 0), "lr[%d]", i)
	}
}

func TestRollingVolatility_Annualized(t *testing.T) {
	lr := []float64{math.NaN(), 0.01, -0.01, 0.02}
	vol := RollingVolatility(lr)

	m := 0.02 / 3
	want := math.Sqrt(((0.01-m)*(0.01-m)+(-0.01-m)*(-0.01-m)+(0.02-m)*(0.02-m))/2) * math.Sqrt(252)
	assert.InDelta(t, want, vol[3], 1e-12)
}

func TestRollingStd(t *testing.T) {
	std, err := RollingStd([]float64{1, 3, math.NaN(), 5}, 3, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(std[0]), "one value has no sample std")
	assert.InDelta(t, math.Sqrt2, std[1], 1e-12)
	assert.InDelta(t, math.Sqrt2, std[2], 1e-12)
	assert.InDelta(t, math.Sqrt2, std[3], 1e-12)

	_, err = RollingStd([]float64{1, 2}, 0, 1)
	assert.Error(t, err)
}

func TestRollingVolatility_WindowIs21(t *testing.T) {
	lr := make([]float64, 30)
	for i := range lr {
		lr[i] = 0.01
	}
	lr[0] = 0.5 // falls out of the window after 21 periods
	vol := RollingVolatility(lr)
	assert.Greater(t, vol[20], 0.0)
	assert.InDelta(t, 0, vol[21], 1e-12)
}

func TestHistogram(t *testing.T) {
	sample := []float64{math.NaN(), 0.3, -0.1, 0.12, 0.13, 0.3}
	bins, err := Histogram(sample, 4)
	require.NoError(t, err)
	require.Len(t, bins, 4)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, -0.1, bins[0].Lower)
	assert.Equal(t, 0.3, bins[3].Upper)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[2].Count)
	assert.Equal(t, 2, bins[3].Count, "maximum lands in the last bin")
}

func TestHistogram_Degenerate(t *testing.T) {
	bins, err := Histogram([]float64{math.NaN()}, 10)
	require.NoError(t, err)
	assert.Empty(t, bins)

	bins, err = Histogram([]float64{0.2, 0.2}, 1)
	require.NoError(t, err)
	require.Len(t, bins, 1)
	assert.Equal(t, 2, bins[0].Count)

	_, err = Histogram([]float64{1}, 0)
	assert.Error(t, err)
}

func TestHistogram_RangeOverflow(t *testing.T) {
	bins, err := Histogram([]float64{-1.7e308, 1.7e308, 0}, DefaultHistogramBins)
	assert.ErrorIs(t, err, ErrRangeOverflow)
	assert.Nil(t, bins)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{100, math.NaN(), 80, 120, 110})
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.First)
	assert.Equal(t, 110.0, s.Last)
	assert.Equal(t, 120.0, s.High)
	assert.Equal(t, 80.0, s.Low)
	assert.InDelta(t, 0.75, s.Position, 1e-12)
	assert.InDelta(t, 0.10, s.TotalReturn, 1e-12)

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestSummarize_Position(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"middle", []float64{0, 10, 5}, 0.5},
		{"at high", []float64{0, 10}, 1},
		{"at low", []float64{10, 0}, 0},
		{"flat", []float64{7, 7, 7}, 0.5},
		{"single", []float64{3}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Summarize(tt.prices)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, s.Position, 1e-12)
		})
	}
}
