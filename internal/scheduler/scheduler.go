// Package scheduler runs the dashboard's periodic background work.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"stockdash/internal/dashboard"
)

// ListLoader reloads the ticker list in its current order.
// *dashboard.Session satisfies it.
type ListLoader interface {
	Reload(ctx context.Context) ([]dashboard.StockRow, error)
}

// parser accepts five-field specs, an optional leading seconds field and
// descriptors such as @every 5m.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Loader ListLoader
	Ctx    context.Context
	log    *slog.Logger
}

// NewScheduler creates a new Scheduler. Runs that overlap a still-running
// refresh are skipped.
func NewScheduler(ctx context.Context, loader ListLoader, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		Loader: loader,
		Ctx:    ctx,
		log:    log,
	}
}

// RegisterListRefresh schedules the ticker list refresh. An empty spec
// schedules nothing.
func (s *Scheduler) RegisterListRefresh(spec string) error {
	if spec == "" {
		s.log.Info("list refresh disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, s.refreshList); err != nil {
		return fmt.Errorf("register list refresh %q: %w", spec, err)
	}
	s.log.Info("list refresh scheduled", "spec", spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started", "entries", len(s.Cron.Entries()))
}

// Stop stops the scheduler and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RefreshNow runs the list refresh immediately.
func (s *Scheduler) RefreshNow() {
	s.refreshList()
}

func (s *Scheduler) refreshList() {
	if s.Ctx.Err() != nil {
		return
	}
	rows, err := s.Loader.Reload(s.Ctx)
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		s.log.Debug("list refresh superseded")
	case err != nil:
		s.log.Error("list refresh failed", "error", err)
	default:
		s.log.Info("list refreshed", "symbols", len(rows))
	}
}
