package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/police-fir-api/models"
)

// DefaultSchedule takes a snapshot at the top of every hour
const DefaultSchedule = "0 * * * *"

// Snapshotter computes and stores a dashboard snapshot
type Snapshotter interface {
	Snapshot(ctx context.Context) (*models.DashboardSnapshot, error)
}

// Scheduler handles periodic background jobs for the dashboard
type Scheduler struct {
	cron     *cron.Cron
	Stats    Snapshotter
	Schedule string
	Timeout  time.Duration
}

// NewScheduler creates a new scheduler instance. An empty schedule falls back
// to DefaultSchedule.
func NewScheduler(stats Snapshotter, schedule string) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		Stats:    stats,
		Schedule: schedule,
		Timeout:  time.Minute,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.Schedule, s.TakeSnapshot); err != nil {
		zap.S().Errorw("failed to register dashboard snapshot job", "schedule", s.Schedule, "error", err)
		return err
	}
	s.cron.Start()
	zap.S().Infow("Dashboard scheduler started", "schedule", s.Schedule)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Dashboard scheduler stopped")
}

// TakeSnapshot stores the current dashboard stats. Failures are logged and
// left for the next run.
func (s *Scheduler) TakeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	snap, err := s.Stats.Snapshot(ctx)
	if err != nil {
		zap.S().Errorw("failed to take dashboard snapshot", "error", err)
		return
	}
	zap.S().Infow("Dashboard snapshot saved",
		"takenAt", snap.TakenAt,
		"totalFirs", snap.Stats.TotalFirs,
		"pendingFirs", snap.Stats.PendingFirs,
		"emergencyFirs", snap.Stats.EmergencyFirs,
	)
}
