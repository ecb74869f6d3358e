package calculator

import (
	"fmt"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

const (
	DefaultMAWindow = 20
	MinMAWindow     = 5
	MaxMAWindow     = 60
)

// Derive computes the moving average, simple and log returns and the
// annualized rolling volatility of a selection view. Every series is
// aligned with view.
func Derive(view []model.Row, maWindow int) (*model.DerivedSeries, error) {
	prices := model.Prices(view)
	ma, err := MovingAverage(prices, maWindow)
	if err != nil {
		return nil, fmt.Errorf("moving average: %w", err)
	}
	logReturns := LogReturns(prices)
	return &model.DerivedSeries{
		Dates:         model.Dates(view),
		Price:         prices,
		MovingAverage: ma,
		Return:        PctChange(prices),
		LogReturn:     logReturns,
		Volatility:    RollingVolatility(logReturns),
	}, nil
}
