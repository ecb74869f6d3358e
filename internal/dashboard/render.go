package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/seannamartin08/stock-market-dashboard/internal/calculator"
	"github.com/seannamartin08/stock-market-dashboard/internal/correlator"
	"github.com/seannamartin08/stock-market-dashboard/internal/model"
	"github.com/seannamartin08/stock-market-dashboard/internal/selector"
)

// ErrInvalidParams wraps every rejected Params value.
var ErrInvalidParams = errors.New("invalid dashboard parameters")

// Params are the user-adjustable inputs of one render. Zero values select
// the defaults: first ticker, full observed span, window 20, 50 bins.
type Params struct {
	Ticker        string
	Start         time.Time
	End           time.Time
	MAWindow      int
	HistogramBins int
}

// Products are the values handed to the presentation layer.
type Products struct {
	Ticker      string
	Tickers     []string
	PriceColumn string
	Start       time.Time
	End         time.Time
	MAWindow    int

	Selection    []model.Row
	Series       *model.DerivedSeries // nil when the selection is empty
	ReturnSample []float64
	Histogram    []model.HistogramBin
	Summary      *model.Summary
	Correlation  model.CorrelationResult
	Notices      []model.Notice
}

// Empty reports whether the selection had no rows.
func (p *Products) Empty() bool { return len(p.Selection) == 0 }

func (p Params) withDefaults(table *model.Table) (Params, error) {
	switch {
	case p.MAWindow == 0:
		p.MAWindow = calculator.DefaultMAWindow
	case p.MAWindow < 0:
		return p, fmt.Errorf("%w: ma_window must be positive, got %d", ErrInvalidParams, p.MAWindow)
	}
	switch {
	case p.HistogramBins == 0:
		p.HistogramBins = calculator.DefaultHistogramBins
	case p.HistogramBins < 0:
		return p, fmt.Errorf("%w: histogram bins must be positive, got %d", ErrInvalidParams, p.HistogramBins)
	}
	if p.Ticker == "" {
		if tickers := table.Tickers(); len(tickers) > 0 {
			p.Ticker = tickers[0]
		}
	}
	first, last, ok := table.Span()
	if ok {
		if p.Start.IsZero() {
			p.Start = first
		}
		if p.End.IsZero() {
			p.End = last
		}
	}
	return p, nil
}

// Render runs the selector, calculator and correlator over table. It holds
// no state between calls: identical inputs give identical products.
func Render(table *model.Table, params Params) (*Products, error) {
	p, err := params.withDefaults(table)
	if err != nil {
		return nil, err
	}

	out := &Products{
		Ticker:      p.Ticker,
		Tickers:     table.Tickers(),
		PriceColumn: table.PriceColumn,
		Start:       p.Start,
		End:         p.End,
		MAWindow:    p.MAWindow,
		Notices:     append([]model.Notice(nil), table.Notices...),
	}

	out.Selection = selector.Select(table, p.Ticker, p.Start, p.End)
	if out.Empty() {
		out.Notices = append(out.Notices, model.Noticef(model.NoticeEmptySelection,
			"No data for selected ticker/date range"))
	} else if err := out.derive(p); err != nil {
		return nil, err
	}

	out.Correlation = correlator.Correlate(table)
	if f := out.Correlation.Failure; f != nil {
		kind := model.NoticeEmptySelection
		if f.Reason == model.FailureReshape {
			kind = model.NoticeReshapeFailure
		}
		out.Notices = append(out.Notices, model.Notice{Kind: kind, Message: f.Message})
	}
	if m := out.Correlation.Matrix; m != nil && len(m.Undefined) > 0 {
		out.Notices = append(out.Notices, model.Noticef(model.NoticeComputationAnomaly,
			"correlation undefined for %s: returns never change", strings.Join(m.Undefined, ", ")))
	}
	return out, nil
}

func (out *Products) derive(p Params) error {
	series, err := calculator.Derive(out.Selection, p.MAWindow)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	out.Series = series
	out.ReturnSample = calculator.Finite(series.Return)

	out.Histogram, err = calculator.Histogram(out.ReturnSample, p.HistogramBins)
	switch {
	case errors.Is(err, calculator.ErrRangeOverflow):
		out.Notices = append(out.Notices, model.Noticef(model.NoticeComputationAnomaly,
			"return histogram unavailable: %v", err))
	case err != nil:
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if s, err := calculator.Summarize(series.Price); err == nil {
		out.Summary = s
	}

	if n := undefinedAfterFirst(series.Return); n > 0 {
		out.Notices = append(out.Notices, model.Noticef(model.NoticeComputationAnomaly,
			"%d return value(s) undefined (zero or missing prior price)", n))
	}
	if n := undefinedAfterFirst(series.LogReturn); n > 0 {
		out.Notices = append(out.Notices, model.Noticef(model.NoticeComputationAnomaly,
			"%d log return value(s) undefined (non-positive or missing price)", n))
	}
	return nil
}

// undefinedAfterFirst counts NaN values past the first position, which is
// undefined by construction.
func undefinedAfterFirst(xs []float64) int {
	n := 0
	for i := 1; i < len(xs); i++ {
		if math.IsNaN(xs[i]) {
			n++
		}
	}
	return n
}
