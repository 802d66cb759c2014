package firs

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

// DashboardStats counts FIRs per status, priority and incident type along
// with user totals. The counts run concurrently and are not taken from a
// single snapshot, so under concurrent writes the total may differ slightly
// from the sum of a breakdown.
func (s *Service) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		mu         sync.Mutex
		total      int64
		byStatus   = make(map[string]int64, len(models.FIRStatuses))
		byPriority = make(map[string]int64, len(models.Priorities))
		byType     map[string]int64
		users      int64
		officers   int64
	)

	g.Go(func() error {
		n, err := s.Store.Count(ctx, query.All())
		if err != nil {
			return errors.Wrap(err, "failed to count firs")
		}
		total = n
		return nil
	})
	for _, st := range models.FIRStatuses {
		st := st
		g.Go(func() error {
			n, err := s.Store.Count(ctx, query.Eq("status", string(st)))
			if err != nil {
				return errors.Wrapf(err, "failed to count %s firs", st)
			}
			mu.Lock()
			byStatus[string(st)] = n
			mu.Unlock()
			return nil
		})
	}
	for _, p := range models.Priorities {
		p := p
		g.Go(func() error {
			n, err := s.Store.Count(ctx, query.Eq("priority", string(p)))
			if err != nil {
				return errors.Wrapf(err, "failed to count %s firs", p)
			}
			mu.Lock()
			byPriority[string(p)] = n
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		counts, err := s.Store.CountByIncidentType(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to count firs by incident type")
		}
		byType = counts
		return nil
	})
	if s.Users != nil {
		g.Go(func() error {
			n, err := s.Users.Count(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to count users")
			}
			users = n
			return nil
		})
		g.Go(func() error {
			n, err := s.Users.CountByRole(ctx, models.RolePolice)
			if err != nil {
				return errors.Wrap(err, "failed to count police officers")
			}
			officers = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if byType == nil {
		byType = map[string]int64{}
	}

	return &models.DashboardStats{
		TotalFirs:              total,
		PendingFirs:            byStatus[string(models.StatusPending)],
		ApprovedFirs:           byStatus[string(models.StatusApproved)],
		RejectedFirs:           byStatus[string(models.StatusRejected)],
		UnderInvestigationFirs: byStatus[string(models.StatusUnderInvestigation)],
		InProgressFirs:         byStatus[string(models.StatusInProgress)],
		ClosedFirs:             byStatus[string(models.StatusClosed)],
		EmergencyFirs:          byPriority[string(models.PriorityEmergency)],
		TotalUsers:             users,
		PoliceOfficers:         officers,
		FirsByIncidentType:     byType,
		FirsByPriority:         byPriority,
		FirsByStatus:           byStatus,
	}, nil
}

// Snapshot computes the dashboard stats and stores them with the time taken
func (s *Service) Snapshot(ctx context.Context) (*models.DashboardSnapshot, error) {
	stats, err := s.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	snap := models.DashboardSnapshot{TakenAt: s.now(), Stats: *stats}
	if err := s.Store.SaveSnapshot(ctx, snap); err != nil {
		return nil, errors.Wrap(err, "failed to save dashboard snapshot")
	}
	return &snap, nil
}
