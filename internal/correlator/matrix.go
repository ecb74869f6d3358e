package correlator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/seannamartin08/stock-market-dashboard/internal/calculator"
	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

// PriceMatrix is a date x ticker grid. Absent cells hold NaN.
type PriceMatrix struct {
	Dates   []time.Time
	Tickers []string
	Values  [][]float64 // Values[date][ticker]
}

// Column returns a copy of the values of ticker column j.
func (m *PriceMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.Dates))
	for i := range m.Dates {
		col[i] = m.Values[i][j]
	}
	return col
}

// DuplicateKeyError reports two rows for the same (date, ticker) cell.
type DuplicateKeyError struct {
	Date   time.Time
	Ticker string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate entry for ticker %s on %s", e.Ticker, e.Date.Format("2006-01-02"))
}

// Pivot reshapes the table into one row per distinct date and one column
// per distinct ticker. Missing observations are left absent, not filled.
func Pivot(table *model.Table) (*PriceMatrix, error) {
	tickers := table.Tickers()
	col := make(map[string]int, len(tickers))
	for j, t := range tickers {
		col[t] = j
	}

	dateSet := make(map[time.Time]struct{})
	for _, r := range table.Rows {
		dateSet[r.Date] = struct{}{}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	row := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		row[d] = i
	}

	values := make([][]float64, len(dates))
	filled := make([][]bool, len(dates))
	for i := range values {
		values[i] = make([]float64, len(tickers))
		filled[i] = make([]bool, len(tickers))
		for j := range values[i] {
			values[i][j] = math.NaN()
		}
	}
	for _, r := range table.Rows {
		i, j := row[r.Date], col[r.Ticker]
		if filled[i][j] {
			return nil, &DuplicateKeyError{Date: r.Date, Ticker: r.Ticker}
		}
		filled[i][j] = true
		values[i][j] = r.Price
	}
	return &PriceMatrix{Dates: dates, Tickers: tickers, Values: values}, nil
}

// Returns computes the period-over-period percent change of every column.
func Returns(m *PriceMatrix) *PriceMatrix {
	out := &PriceMatrix{
		Dates:   m.Dates,
		Tickers: m.Tickers,
		Values:  make([][]float64, len(m.Dates)),
	}
	for i := range out.Values {
		out.Values[i] = make([]float64, len(m.Tickers))
	}
	for j := range m.Tickers {
		for i, v := range calculator.PctChange(m.Column(j)) {
			out.Values[i][j] = v
		}
	}
	return out
}

// CompleteCases drops every date row holding an absent value in any column.
func CompleteCases(m *PriceMatrix) *PriceMatrix {
	out := &PriceMatrix{Tickers: m.Tickers}
	for i, vals := range m.Values {
		complete := true
		for _, v := range vals {
			if math.IsNaN(v) {
				complete = false
				break
			}
		}
		if complete {
			out.Dates = append(out.Dates, m.Dates[i])
			out.Values = append(out.Values, vals)
		}
	}
	return out
}
