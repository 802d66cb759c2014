package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/police-fir-api/api/scheduler"
	"github.com/linesmerrill/police-fir-api/api/testhelpers"
	"github.com/linesmerrill/police-fir-api/models"
)

type failingSnapshotter struct{ calls int }

func (f *failingSnapshotter) Snapshot(context.Context) (*models.DashboardSnapshot, error) {
	f.calls++
	return nil, errors.New("store unavailable")
}

func TestNewSchedulerDefaults(t *testing.T) {
	s := scheduler.NewScheduler(&failingSnapshotter{}, "")
	assert.Equal(t, scheduler.DefaultSchedule, s.Schedule)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := scheduler.NewScheduler(&failingSnapshotter{}, "every tuesday")
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := scheduler.NewScheduler(&failingSnapshotter{}, "@every 1h")
	assert.NoError(t, s.Start())
	s.Stop()
}

func TestTakeSnapshotStoresStats(t *testing.T) {
	svc, store := testhelpers.NewService()
	_, err := svc.CreateFIR(context.Background(), models.FIRRequest{IncidentType: "Theft"}, &testhelpers.Citizen)
	assert.NoError(t, err)

	scheduler.NewScheduler(svc, "").TakeSnapshot()

	snaps := store.Snapshots()
	if assert.Len(t, snaps, 1) {
		assert.Equal(t, int64(1), snaps[0].Stats.TotalFirs)
		assert.WithinDuration(t, time.Now(), snaps[0].TakenAt, time.Minute)
	}
}

func TestTakeSnapshotSurvivesFailure(t *testing.T) {
	f := &failingSnapshotter{}
	s := scheduler.NewScheduler(f, "")

	assert.NotPanics(t, s.TakeSnapshot)
	assert.Equal(t, 1, f.calls)
}
