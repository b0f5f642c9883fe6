package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// cleanupSchedule runs the housekeeping pass nightly at 03:00.
const cleanupSchedule = "0 3 * * *"

// Scheduler owns the background jobs: the periodic library sync and the
// nightly cleanup pass.
type Scheduler struct {
	cron    *cron.Cron
	sync    *controllers.SyncController
	cleanup *controllers.CleanupController
	logger  *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(
	syncController *controllers.SyncController,
	cleanupController *controllers.CleanupController,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sync:    syncController,
		cleanup: cleanupController,
		logger:  logger,
	}
}

// Start registers the cron jobs and kicks off an immediate initial sync so
// the dashboard warms up without waiting a full interval.
func (s *Scheduler) Start(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		intervalMinutes = 30
	}

	syncSpec := fmt.Sprintf("@every %dm", intervalMinutes)
	if _, err := s.cron.AddFunc(syncSpec, func() {
		if !s.sync.TriggerAsync() {
			s.logger.Warn("Scheduled sync skipped: previous sync still running")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}

	if _, err := s.cron.AddFunc(cleanupSchedule, func() {
		s.cleanup.Run(context.Background(), false)
	}); err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}

	s.cron.Start()
	s.logger.WithFields(logrus.Fields{
		"sync_interval": syncSpec,
		"cleanup":       cleanupSchedule,
	}).Info("Scheduler started")

	if !s.sync.TriggerAsync() {
		s.logger.Warn("Initial sync skipped: a sync is already in progress")
	}
	return nil
}

// Stop halts the cron runner. Jobs already in flight finish on their own.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
