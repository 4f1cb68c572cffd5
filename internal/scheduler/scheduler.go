package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sodiqltd/stockboard/internal/config"
	"github.com/sodiqltd/stockboard/internal/service/reporting"
	"github.com/sodiqltd/stockboard/internal/service/table"
)

// Scheduler manages background jobs: the idle-session sweep and, when a
// spreadsheet is configured, the daily inventory snapshot. Jobs never touch a
// live session's table state.
type Scheduler struct {
	cron         *cron.Cron
	sessions     *table.Manager
	reportingSvc *reporting.Service // optional
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. reportingSvc may be nil.
func NewScheduler(cfg config.Config, sessions *table.Manager, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		sessions:     sessions,
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.SweepSchedule, s.sweepSessions); err != nil {
		s.logger.Error("failed to schedule session sweep", zap.Error(err))
	}

	if s.reportingSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.SnapshotSchedule, s.writeSnapshot); err != nil {
			s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sweepSessions() {
	evicted := s.sessions.SweepIdle(s.cfg.Table.SessionTTL)
	if evicted > 0 {
		s.logger.Info("session sweep completed", zap.Int("evicted", evicted))
	}
}

func (s *Scheduler) writeSnapshot() {
	s.logger.Info("generating daily inventory snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.reportingSvc.WriteDailySnapshot(ctx, time.Now()); err != nil {
		s.logger.Error("failed to write daily snapshot", zap.Error(err))
	}
}
