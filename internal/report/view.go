package report

import (
	"math"
	"strconv"

	"github.com/seannamartin08/stock-market-dashboard/internal/dashboard"
	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

const dateLayout = "2006-01-02"

// Number is a float64 that encodes NaN and infinities as JSON null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(xs []float64) []Number {
	out := make([]Number, len(xs))
	for i, x := range xs {
		out[i] = Number(x)
	}
	return out
}

// Point is one date of the selected series.
type Point struct {
	Date          string `json:"date"`
	Price         Number `json:"price"`
	MovingAverage Number `json:"moving_average"`
	Return        Number `json:"return"`
	LogReturn     Number `json:"log_return"`
	Volatility    Number `json:"volatility"`
}

// SummaryView is the JSON form of model.Summary.
type SummaryView struct {
	First       Number `json:"first"`
	Last        Number `json:"last"`
	High        Number `json:"high"`
	Low         Number `json:"low"`
	Position    Number `json:"position"`
	TotalReturn Number `json:"total_return"`
}

// CorrelationView holds either the matrix or the failure.
type CorrelationView struct {
	Tickers      []string                  `json:"tickers,omitempty"`
	Values       [][]Number                `json:"values,omitempty"`
	Observations int                       `json:"observations,omitempty"`
	Undefined    []string                  `json:"undefined,omitempty"`
	Failure      *model.CorrelationFailure `json:"failure,omitempty"`
}

// View is the JSON document describing one render.
type View struct {
	Ticker       string               `json:"ticker"`
	Tickers      []string             `json:"tickers"`
	PriceColumn  string               `json:"price_column"`
	Start        string               `json:"start,omitempty"`
	End          string               `json:"end,omitempty"`
	MAWindow     int                  `json:"ma_window"`
	Points       []Point              `json:"points"`
	ReturnSample []Number             `json:"return_sample"`
	Histogram    []model.HistogramBin `json:"histogram"`
	Summary      *SummaryView         `json:"summary,omitempty"`
	Correlation  CorrelationView      `json:"correlation"`
	Notices      []model.Notice       `json:"notices"`
}

func formatDate(p *dashboard.Products, start bool) string {
	t := p.End
	if start {
		t = p.Start
	}
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// NewView converts products into their JSON document.
func NewView(p *dashboard.Products) *View {
	v := &View{
		Ticker:       p.Ticker,
		Tickers:      p.Tickers,
		PriceColumn:  p.PriceColumn,
		Start:        formatDate(p, true),
		End:          formatDate(p, false),
		MAWindow:     p.MAWindow,
		Points:       []Point{},
		ReturnSample: numbers(p.ReturnSample),
		Histogram:    p.Histogram,
		Notices:      p.Notices,
	}
	if v.Tickers == nil {
		v.Tickers = []string{}
	}
	if v.Histogram == nil {
		v.Histogram = []model.HistogramBin{}
	}
	if v.Notices == nil {
		v.Notices = []model.Notice{}
	}

	if s := p.Series; s != nil {
		v.Points = make([]Point, s.Len())
		for i := range v.Points {
			v.Points[i] = Point{
				Date:          s.Dates[i].Format(dateLayout),
				Price:         Number(s.Price[i]),
				MovingAverage: Number(s.MovingAverage[i]),
				Return:        Number(s.Return[i]),
				LogReturn:     Number(s.LogReturn[i]),
				Volatility:    Number(s.Volatility[i]),
			}
		}
	}
	if s := p.Summary; s != nil {
		v.Summary = &SummaryView{
			First:       Number(s.First),
			Last:        Number(s.Last),
			High:        Number(s.High),
			Low:         Number(s.Low),
			Position:    Number(s.Position),
			TotalReturn: Number(s.TotalReturn),
		}
	}

	if m := p.Correlation.Matrix; m != nil {
		v.Correlation.Tickers = m.Tickers
		v.Correlation.Observations = m.Observations
		v.Correlation.Undefined = m.Undefined
		v.Correlation.Values = make([][]Number, len(m.Values))
		for i, row := range m.Values {
			v.Correlation.Values[i] = numbers(row)
		}
	}
	v.Correlation.Failure = p.Correlation.Failure
	return v
}
