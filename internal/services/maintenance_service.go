package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/nconnect/society-backend/internal/metrics"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

const (
	OverdueBillsCronSpec  = "@every 1h"
	CameraExpiryCronSpec  = "@every 10m"
	MaintenanceJobTimeout = 2 * time.Minute
	jobMarkOverdueBills   = "mark_overdue_bills"
	jobExpireCameraAccess = "expire_camera_access"
)

// MaintenanceService holds the periodic jobs. Each job is a single
// idempotent UPDATE, so overlapping or missed runs are harmless.
type MaintenanceService struct {
	bills   repositories.BillRepository
	cameras repositories.CameraRequestRepository
	now     func() time.Time
}

func NewMaintenanceService(bills repositories.BillRepository, cameras repositories.CameraRequestRepository) *MaintenanceService {
	return &MaintenanceService{bills: bills, cameras: cameras, now: time.Now}
}

func (s *MaintenanceService) MarkOverdueBills(ctx context.Context) (int64, error) {
	n, err := s.bills.MarkOverdue(ctx, today(s.now()))
	if err != nil {
		return 0, err
	}
	s.logJob(jobMarkOverdueBills, n)
	return n, nil
}

func (s *MaintenanceService) ExpireCameraAccess(ctx context.Context) (int64, error) {
	n, err := s.cameras.ExpireApproved(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.logJob(jobExpireCameraAccess, n)
	return n, nil
}

// Register schedules both jobs on c. The caller owns Start and Stop.
func (s *MaintenanceService) Register(c *cron.Cron) error {
	if _, err := c.AddFunc(OverdueBillsCronSpec, s.runner(jobMarkOverdueBills, s.MarkOverdueBills)); err != nil {
		return err
	}
	if _, err := c.AddFunc(CameraExpiryCronSpec, s.runner(jobExpireCameraAccess, s.ExpireCameraAccess)); err != nil {
		return err
	}
	return nil
}

func (s *MaintenanceService) runner(job string, fn func(context.Context) (int64, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), MaintenanceJobTimeout)
		defer cancel()
		if _, err := fn(ctx); err != nil {
			utils.Logger.WithField("job", job).WithError(err).Error("Scheduled maintenance failed")
		}
	}
}

func (s *MaintenanceService) logJob(job string, rows int64) {
	metrics.ScheduledJobRowsTotal.WithLabelValues(job).Add(float64(rows))
	entry := utils.Logger.WithFields(logrus.Fields{"job": job, "rows": rows})
	if rows > 0 {
		entry.Info("Scheduled maintenance updated rows")
		return
	}
	entry.Debug("Scheduled maintenance found nothing to update")
}
