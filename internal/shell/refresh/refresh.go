// Package refresh periodically rebuilds the player catalog so prices,
// fixtures and predictions stay current between requests.
package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/fplkit/planner/internal/shell/catalog"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes every thirty minutes.
const DefaultSchedule = "*/30 * * * *"

// refreshTimeout bounds one refresh run, upstream fetch and scoring
// included.
const refreshTimeout = 2 * time.Minute

// =============================================================================
// Service
// =============================================================================

// Service drives scheduled catalog refreshes. A failed run is logged
// and retried on the next tick; the catalog keeps serving its last good
// snapshot in the meantime.
type Service struct {
	catalog  *catalog.Service
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
}

// New creates a refresh service. An empty schedule selects
// DefaultSchedule.
func New(c *catalog.Service, schedule string, logger *slog.Logger) *Service {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:  c,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the refresh job and begins the schedule.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("catalog refresh scheduled", "schedule", s.schedule)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) run() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Error("scheduled catalog refresh failed", "error", err)
		return
	}
	s.logger.Info("scheduled catalog refresh complete", "duration", time.Since(start))
}
