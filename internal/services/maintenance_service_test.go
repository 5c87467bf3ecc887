package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
)

func TestMaintenance_MarksOverdueBillsAndExpiresAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	bills := &fakeBills{t: newTable[models.Bill]()}
	cams := &fakeCameraRequests{t: newTable[models.CameraRequest]()}

	late := &models.Bill{ID: uuid.New(), Status: models.BillUnpaid, DueDate: now.AddDate(0, 0, -5)}
	dueToday := &models.Bill{ID: uuid.New(), Status: models.BillUnpaid, DueDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)}
	paid := &models.Bill{ID: uuid.New(), Status: models.BillPaid, DueDate: now.AddDate(0, -1, 0)}
	for _, b := range []*models.Bill{late, dueToday, paid} {
		bills.t.put(b.ID, b)
	}
	ended, open := now.Add(-time.Minute), now.Add(time.Hour)
	expired := &models.CameraRequest{ID: uuid.New(), Status: models.CameraRequestApproved, ExpiresAt: &ended}
	active := &models.CameraRequest{ID: uuid.New(), Status: models.CameraRequestApproved, ExpiresAt: &open}
	cams.t.put(expired.ID, expired)
	cams.t.put(active.ID, active)

	svc := NewMaintenanceService(bills, cams)
	svc.now = func() time.Time { return now }

	n, err := svc.MarkOverdueBills(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), bills.overdueCutoff)
	require.Equal(t, models.BillOverdue, bills.t.get(late.ID).Status)
	require.Equal(t, models.BillUnpaid, bills.t.get(dueToday.ID).Status)

	n, err = svc.MarkOverdueBills(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = svc.ExpireCameraAccess(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.Equal(t, models.CameraRequestExpired, cams.t.get(expired.ID).Status)
	require.Equal(t, models.CameraRequestApproved, cams.t.get(active.ID).Status)
}

func TestMaintenance_RegistersBothJobs(t *testing.T) {
	c := cron.New()
	svc := NewMaintenanceService(&fakeBills{t: newTable[models.Bill]()}, &fakeCameraRequests{t: newTable[models.CameraRequest]()})
	require.NoError(t, svc.Register(c))
	require.Len(t, c.Entries(), 2)
}

func TestActivity_ResidentsOnlySeeTheirOwn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewActivityService(f.activity, f.callers)
	rec := activityRecorder{repo: f.activity, now: time.Now}
	for i := 0; i < 3; i++ {
		rec.record(ctx, f.alice, models.ActivityUpdate, models.TargetUser, nil, "edit")
	}
	rec.record(ctx, f.bob, models.ActivityLogin, models.TargetUser, nil, "login")

	logs, err := svc.List(ctx, f.bob, repositories.ActivityFilter{UserID: &f.alice})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, f.bob, logs[0].UserID)

	logs, err = svc.List(ctx, f.admin, repositories.ActivityFilter{UserID: &f.alice, Limit: 2})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	logs, err = svc.List(ctx, f.admin, repositories.ActivityFilter{Limit: 10_000})
	require.NoError(t, err)
	require.Len(t, logs, 4)
}

func TestActivityRecorder_FailureIsSwallowed(t *testing.T) {
	repo := &fakeActivity{fail: true}
	rec := activityRecorder{repo: repo, now: time.Now}
	require.NotPanics(t, func() {
		rec.record(context.Background(), uuid.New(), models.ActivityLogin, models.TargetUser, nil, "login")
	})
	require.Empty(t, repo.actions())
}

func TestDashboard_OccupancyRateAndMonthStart(t *testing.T) {
	f := newFixture(t)
	stats := &fakeStats{counts: repositories.DashboardCounts{TotalUnits: 3, OccupiedUnits: 2}}
	svc := NewDashboardService(stats, f.activity)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC) }

	rec := activityRecorder{repo: f.activity, now: time.Now}
	for i := 0; i < RecentActivityLimit+5; i++ {
		rec.record(context.Background(), f.alice, models.ActivityUpdate, models.TargetUser, nil, "edit")
	}

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 66.7, resp.OccupancyRate)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), stats.monthlySince)
	require.Equal(t, 3, resp.Monthly.NewComplaints)
	require.Len(t, resp.RecentActivity, RecentActivityLimit)

	require.Zero(t, occupancyRate(0, 0))
	require.Equal(t, 100.0, occupancyRate(4, 4))
}
