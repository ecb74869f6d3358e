package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seannamartin08/stock-market-dashboard/internal/api"
	"github.com/seannamartin08/stock-market-dashboard/internal/dashboard"
	"github.com/seannamartin08/stock-market-dashboard/internal/metrics"
	"github.com/seannamartin08/stock-market-dashboard/internal/scheduler"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. Ctrl+C stops it.

When refresh.cron and refresh.symbols are set the default data file is
refreshed from Yahoo Finance on that schedule. RUN_ON_START=true runs one
refresh immediately.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address; default is server.addr")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := dashboard.NewService(cfg.Data.Path, loaderOptions(), metrics.New(reg), log.Logger)
	h := api.NewHandler(svc, cfg.Dashboard.MAWindow, cfg.Dashboard.HistogramBins, cfg.Server.MaxUploadMB, log.Logger)

	if cfg.Refresh.Cron != "" {
		sched := scheduler.NewScheduler(ctx, refreshSource(), cfg.Data.Path, log.Logger)
		if err := sched.Register(cfg.Refresh.Cron); err != nil {
			return fmt.Errorf("register refresh: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("RUN_ON_START enabled, refreshing data now")
			go func() {
				if err := sched.RunNow(); err != nil {
					log.Error().Err(err).Msg("initial refresh failed")
				}
			}()
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(h, reg, log.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("data", cfg.Data.Path).Msg("dashboard API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("dashboard API stopped")
	return nil
}
