package correlator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func tableOf(series map[string][]float64) *model.Table {
	t := &model.Table{}
	for ticker, prices := range series {
		for i, p := range prices {
			t.Rows = append(t.Rows, model.Row{Date: day(i + 1), Ticker: ticker, Price: p})
		}
	}
	return t
}

func TestPivot(t *testing.T) {
	table := &model.Table{Rows: []model.Row{
		{Date: day(1), Ticker: "A", Price: 1},
		{Date: day(2), Ticker: "A", Price: 2},
		{Date: day(3), Ticker: "B", Price: 30},
		{Date: day(1), Ticker: "B", Price: 10},
	}}
	m, err := Pivot(table)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(1), day(2), day(3)}, m.Dates)
	assert.Equal(t, []string{"A", "B"}, m.Tickers)
	assert.Equal(t, []float64{1, 10}, m.Values[0])
	assert.Equal(t, 2.0, m.Values[1][0])
	assert.True(t, math.IsNaN(m.Values[1][1]), "absent cell is not interpolated")
	assert.True(t, math.IsNaN(m.Values[2][0]))
}

func TestPivot_DuplicateKey(t *testing.T) {
	table := &model.Table{Rows: []model.Row{
		{Date: day(1), Ticker: "A", Price: 1},
		{Date: day(1), Ticker: "A", Price: 2},
	}}
	_, err := Pivot(table)
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Ticker)
}

func TestCompleteCases(t *testing.T) {
	m := &PriceMatrix{
		Dates:   []time.Time{day(1), day(2), day(3)},
		Tickers: []string{"A", "B"},
		Values:  [][]float64{{math.NaN(), math.NaN()}, {0.1, 0.2}, {0.3, math.NaN()}},
	}
	out := CompleteCases(m)
	assert.Equal(t, []time.Time{day(2)}, out.Dates)
	assert.Equal(t, [][]float64{{0.1, 0.2}}, out.Values)
}

func TestCorrelate_PerfectlyCorrelated(t *testing.T) {
	result := Correlate(tableOf(map[string][]float64{
		"A": {100, 110, 99, 120, 118},
		"B": {50, 55, 49.5, 60, 59},
	}))
	require.True(t, result.OK(), "failure: %+v", result.Failure)
	m := result.Matrix
	assert.Equal(t, 4, m.Observations)

	ab, ok := m.At("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 1.0, ab, 1e-9)
}

func TestCorrelate_SymmetricUnitDiagonal(t *testing.T) {
	result := Correlate(tableOf(map[string][]float64{
		"A": {10, 11, 10.5, 12, 11.8, 12.4},
		"B": {20, 19, 19.5, 21, 22, 21.5},
		"C": {5, 5.2, 5.1, 4.9, 5.3, 5.6},
	}))
	require.True(t, result.OK())
	m := result.Matrix
	require.Len(t, m.Values, 3)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, math.Abs(m.Values[i][j]), 1.0+1e-12)
		}
	}
	ab, _ := m.At("A", "B")
	assert.Less(t, ab, 1.0)
}

func TestCorrelate_SingleTicker(t *testing.T) {
	result := Correlate(tableOf(map[string][]float64{"SINGLE": {1, 2, 3}}))
	require.False(t, result.OK())
	assert.Equal(t, model.FailureInsufficientTickers, result.Failure.Reason)
}

func TestCorrelate_NoOverlap(t *testing.T) {
	table := &model.Table{Rows: []model.Row{
		{Date: day(1), Ticker: "A", Price: 1},
		{Date: day(2), Ticker: "A", Price: 2},
		{Date: day(3), Ticker: "A", Price: 3},
		{Date: day(4), Ticker: "B", Price: 1},
		{Date: day(5), Ticker: "B", Price: 2},
	}}
	result := Correlate(table)
	require.False(t, result.OK())
	assert.Equal(t, model.FailureInsufficientRows, result.Failure.Reason)
}

func TestCorrelate_DuplicateIsCaught(t *testing.T) {
	table := tableOf(map[string][]float64{"A": {1, 2, 3}, "B": {3, 2, 1}})
	table.Rows = append(table.Rows, model.Row{Date: day(2), Ticker: "B", Price: 9})
	result := Correlate(table)
	require.False(t, result.OK())
	assert.Equal(t, model.FailureReshape, result.Failure.Reason)
	assert.Contains(t, result.Failure.Message, "duplicate entry for ticker B")
}

func TestCorrelate_ConstantTicker(t *testing.T) {
	result := Correlate(tableOf(map[string][]float64{
		"A": {10, 10, 10, 10},
		"B": {1, 2, 3, 5},
		"C": {4, 3, 5, 4},
	}))
	require.True(t, result.OK())
	m := result.Matrix
	assert.Equal(t, []string{"A"}, m.Undefined)

	for _, other := range []string{"A", "B", "C"} {
		v, ok := m.At("A", other)
		require.True(t, ok)
		assert.True(t, math.IsNaN(v), "A/%s", other)
		v, _ = m.At(other, "A")
		assert.True(t, math.IsNaN(v), "%s/A", other)
	}

	bb, _ := m.At("B", "B")
	assert.Equal(t, 1.0, bb)
	bc, _ := m.At("B", "C")
	assert.False(t, math.IsNaN(bc))
	assert.LessOrEqual(t, math.Abs(bc), 1.0)
}
