package correlator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

// minObservations is the number of complete return rows a coefficient needs.
const minObservations = 2

func failure(reason model.FailureReason, format string, args ...any) model.CorrelationResult {
	return model.CorrelationResult{Failure: &model.CorrelationFailure{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}}
}

// Correlate computes the Pearson correlation of period returns across all
// tickers of the full table. Only dates on which every ticker has a return
// are used. Failures are returned as values, never as panics.
func Correlate(table *model.Table) (result model.CorrelationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(model.FailureReshape, "correlation failed: %v", r)
		}
	}()

	if n := len(table.Tickers()); n < 2 {
		return failure(model.FailureInsufficientTickers,
			"Need at least 2 tickers to show correlation (found %d)", n)
	}

	prices, err := Pivot(table)
	if err != nil {
		return failure(model.FailureReshape, "cannot reshape prices: %v", err)
	}

	returns := CompleteCases(Returns(prices))
	if len(returns.Dates) < minObservations {
		return failure(model.FailureInsufficientRows,
			"Need at least %d dates where every ticker has a return (found %d)",
			minObservations, len(returns.Dates))
	}

	sym, undefined := correlationMatrix(returns)
	n := len(returns.Tickers)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		for j := range values[i] {
			values[i][j] = sym.At(i, j)
		}
	}
	return model.CorrelationResult{Matrix: &model.CorrelationMatrix{
		Tickers:      returns.Tickers,
		Values:       values,
		Observations: len(returns.Dates),
		Undefined:    undefined,
	}}
}

// correlationMatrix fills a symmetric Pearson matrix. A ticker whose
// returns have zero or non-finite variance has no defined coefficient, so
// its whole row and column, diagonal included, are NaN and it is listed in
// undefined.
func correlationMatrix(m *PriceMatrix) (*mat.SymDense, []string) {
	n := len(m.Tickers)
	cols := make([][]float64, n)
	defined := make([]bool, n)
	var undefined []string
	for j := range cols {
		cols[j] = m.Column(j)
		v := stat.Variance(cols[j], nil)
		defined[j] = v > 0 && !math.IsInf(v, 0)
		if !defined[j] {
			undefined = append(undefined, m.Tickers[j])
		}
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if !defined[i] {
			for j := 0; j < n; j++ {
				sym.SetSym(i, j, math.NaN())
			}
			continue
		}
		sym.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			if defined[j] {
				sym.SetSym(i, j, stat.Correlation(cols[i], cols[j], nil))
			}
		}
	}
	return sym, undefined
}
