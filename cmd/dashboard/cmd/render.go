package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seannamartin08/stock-market-dashboard/internal/dashboard"
	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
	"github.com/seannamartin08/stock-market-dashboard/internal/metrics"
	"github.com/seannamartin08/stock-market-dashboard/internal/report"
)

type renderOptions struct {
	input    string
	ticker   string
	start    string
	end      string
	maWindow int
	bins     int
	json     bool
}

var renderFlags renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the dashboard for one ticker",
	Long: `Print the dashboard for one ticker.

Examples:
  dashboard render                                  # first ticker, full range
  dashboard render --ticker MSFT --ma-window 50
  dashboard render --input prices.xlsx --start 2024-01-01 --json`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.input, "input", "i", "", "input file (csv, xlsx or sqlite); default is data.path")
	f.StringVarP(&renderFlags.ticker, "ticker", "t", "", "ticker to show; default is the first")
	f.StringVar(&renderFlags.start, "start", "", "first date (YYYY-MM-DD)")
	f.StringVar(&renderFlags.end, "end", "", "last date (YYYY-MM-DD)")
	f.IntVarP(&renderFlags.maWindow, "ma-window", "w", 0, "moving average window (5-60)")
	f.IntVar(&renderFlags.bins, "bins", 0, "histogram bins")
	f.BoolVar(&renderFlags.json, "json", false, "print the JSON document instead of text")
}

func parseDate(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

func renderParams() (dashboard.Params, error) {
	p := dashboard.Params{
		Ticker:        renderFlags.ticker,
		MAWindow:      renderFlags.maWindow,
		HistogramBins: renderFlags.bins,
	}
	if p.MAWindow == 0 {
		p.MAWindow = cfg.Dashboard.MAWindow
	}
	if p.HistogramBins == 0 {
		p.HistogramBins = cfg.Dashboard.HistogramBins
	}
	var err error
	if p.Start, err = parseDate("start", renderFlags.start); err != nil {
		return p, err
	}
	if p.End, err = parseDate("end", renderFlags.end); err != nil {
		return p, err
	}
	return p, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	params, err := renderParams()
	if err != nil {
		return err
	}

	var upload loader.Source
	if renderFlags.input != "" {
		if upload, err = loader.Open(renderFlags.input, loaderOptions()); err != nil {
			return err
		}
	}

	svc := dashboard.NewService(cfg.Data.Path, loaderOptions(), metrics.New(prometheus.NewRegistry()), log.Logger)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	products, err := svc.Run(ctx, upload, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if renderFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.NewView(products))
	}
	_, err = fmt.Fprint(out, report.FormatText(products))
	return err
}

