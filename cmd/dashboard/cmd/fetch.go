package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
	"github.com/seannamartin08/stock-market-dashboard/internal/scheduler"
)

type fetchOptions struct {
	symbols []string
	rng     string
	output  string
}

var fetchFlags fetchOptions

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Refresh the default data file from Yahoo Finance",
	Long: `Download daily closes for the configured symbols and rewrite the
default data file as Date,Ticker,Close,Adj Close.

Examples:
  dashboard fetch
  dashboard fetch --symbols AAPL,MSFT,SPX500 --range 5y --output stocks.csv`,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringSliceVar(&fetchFlags.symbols, "symbols", nil, "symbols to download; default is refresh.symbols")
	f.StringVar(&fetchFlags.rng, "range", "", "history range such as 1y or 5y; default is refresh.range")
	f.StringVarP(&fetchFlags.output, "output", "o", "", "file to write; default is data.path")
}

func refreshSource() *loader.YahooSource {
	symbols := cfg.Refresh.Symbols
	if len(fetchFlags.symbols) > 0 {
		symbols = fetchFlags.symbols
	}
	rng := cfg.Refresh.Range
	if fetchFlags.rng != "" {
		rng = fetchFlags.rng
	}
	return loader.NewYahooSource(symbols, rng, cfg.Refresh.Proxy)
}

func runFetch(cmd *cobra.Command, args []string) error {
	src := refreshSource()
	if len(src.Symbols) == 0 {
		return errors.New("no symbols: set refresh.symbols or pass --symbols")
	}
	target := cfg.Data.Path
	if fetchFlags.output != "" {
		target = fetchFlags.output
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := scheduler.NewScheduler(ctx, src, target, log.Logger).RunNow(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d symbols)\n", target, len(src.Symbols))
	return nil
}
