package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
	"github.com/seannamartin08/stock-market-dashboard/internal/metrics"
	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

// Service loads an input table and renders it. Each call works on its own
// copy of the data; nothing is cached between calls.
type Service struct {
	Fallback string
	Options  loader.Options
	Metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewService creates a Service reading fallback when no upload is given.
func NewService(fallback string, opts loader.Options, m *metrics.Metrics, log zerolog.Logger) *Service {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Service{
		Fallback: fallback,
		Options:  opts,
		Metrics:  m,
		log:      log.With().Str("component", "dashboard").Logger(),
	}
}

func sourceKind(src loader.Source) string {
	name := src.Name()
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return name
}

// Table resolves the input (upload first, then the fallback file) and
// normalizes it.
func (s *Service) Table(ctx context.Context, upload loader.Source) (*model.Table, error) {
	src, err := loader.Resolve(upload, s.Fallback, s.Options)
	if err != nil {
		s.Metrics.Loads.WithLabelValues("none", "no_source").Inc()
		return nil, err
	}
	kind := sourceKind(src)

	table, err := loader.Load(ctx, src)
	if err != nil {
		outcome := "error"
		var schemaErr *loader.SchemaError
		if errors.As(err, &schemaErr) {
			outcome = "schema_error"
		}
		s.Metrics.Loads.WithLabelValues(kind, outcome).Inc()
		return nil, err
	}
	s.Metrics.Loads.WithLabelValues(kind, "ok").Inc()
	s.Metrics.RowsDropped.Add(float64(table.Dropped))

	s.log.Debug().
		Str("source", src.Name()).
		Int("rows", table.Len()).
		Int("dropped", table.Dropped).
		Str("price_column", table.PriceColumn).
		Msg("input loaded")
	return table, nil
}

// Run loads the input and renders the dashboard products for params.
func (s *Service) Run(ctx context.Context, upload loader.Source, params Params) (*Products, error) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()

	table, err := s.Table(ctx, upload)
	if err != nil {
		log.Warn().Err(err).Msg("load failed")
		return nil, fmt.Errorf("load input: %w", err)
	}

	start := time.Now()
	products, err := Render(table, params)
	s.Metrics.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Warn().Err(err).Msg("render failed")
		return nil, err
	}
	if f := products.Correlation.Failure; f != nil {
		s.Metrics.CorrelationFailures.WithLabelValues(string(f.Reason)).Inc()
	}

	log.Info().
		Str("ticker", products.Ticker).
		Time("start", products.Start).
		Time("end", products.End).
		Int("ma_window", products.MAWindow).
		Int("selected", len(products.Selection)).
		Int("notices", len(products.Notices)).
		Msg("dashboard rendered")
	return products, nil
}
