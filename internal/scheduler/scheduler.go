package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
)

// Scheduler refreshes the fallback data file from a remote source on a
// cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Source loader.Source
	Target string
	Ctx    context.Context

	mu  sync.Mutex
	log zerolog.Logger
}

// NewScheduler creates a Scheduler that rewrites target from src.
func NewScheduler(ctx context.Context, src loader.Source, target string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Source: src,
		Target: target,
		Ctx:    ctx,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the refresh job under a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	if err := s.RunNow(); err != nil {
		s.log.Error().Err(err).Msg("refresh failed")
	}
}

// RunNow downloads the source and replaces the target file. The download
// is checked with the normalizer first, so a table without a usable price
// or date column never replaces a good file.
func (s *Scheduler) RunNow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	raw, err := s.Source.Load(s.Ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", s.Source.Name(), err)
	}
	table, err := loader.Normalize(raw)
	if err != nil {
		return fmt.Errorf("validate %s: %w", s.Source.Name(), err)
	}
	if err := loader.WriteCSVFile(s.Target, raw); err != nil {
		return fmt.Errorf("write %s: %w", s.Target, err)
	}

	s.log.Info().
		Str("source", s.Source.Name()).
		Str("target", s.Target).
		Int("rows", table.Len()).
		Strs("tickers", table.Tickers()).
		Dur("took", time.Since(started)).
		Msg("data file refreshed")
	return nil
}
