package repositories

import (
	"context"
	"time"
)

// DashboardCounts is the snapshot shown on the administrator dashboard.
type DashboardCounts struct {
	TotalUsers             int `json:"total_users"`
	ActiveUsers            int `json:"active_users"`
	TotalUnits             int `json:"total_units"`
	OccupiedUnits          int `json:"occupied_units"`
	TotalVehicles          int `json:"total_vehicles"`
	PendingComplaints      int `json:"pending_complaints"`
	OverdueBills           int `json:"overdue_bills"`
	PendingCameraRequests  int `json:"pending_camera_requests"`
	PendingTenancyRequests int `json:"pending_tenancy_requests"`
	ActiveNotifications    int `json:"active_notifications"`
}

// MonthlyCounts covers records created since the start of the month.
type MonthlyCounts struct {
	NewComplaints      int   `json:"new_complaints"`
	ResolvedComplaints int   `json:"resolved_complaints"`
	BillsRaised        int   `json:"bills_raised"`
	BillsPaid          int   `json:"bills_paid"`
	CollectedPaise     int64 `json:"collected_paise"`
	NewUsers           int   `json:"new_users"`
}

type StatsRepository interface {
	DashboardCounts(ctx context.Context) (*DashboardCounts, error)
	MonthlyCounts(ctx context.Context, since time.Time) (*MonthlyCounts, error)
}

type statsRepo struct {
	db DB
}

func NewStatsRepository(db DB) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) DashboardCounts(ctx context.Context) (*DashboardCounts, error) {
	var c DashboardCounts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM residence_units),
			(SELECT COUNT(*) FROM residence_units WHERE is_occupied),
			(SELECT COUNT(*) FROM vehicles WHERE is_active),
			(SELECT COUNT(*) FROM complaints WHERE status IN ('open', 'in_progress')),
			(SELECT COUNT(*) FROM bills WHERE status='overdue'),
			(SELECT COUNT(*) FROM camera_requests WHERE status='pending'),
			(SELECT COUNT(*) FROM tenancy_requests WHERE status='pending'),
			(SELECT COUNT(*) FROM notifications WHERE is_active AND (expires_at IS NULL OR expires_at > NOW()))
	`).Scan(
		&c.TotalUsers, &c.ActiveUsers, &c.TotalUnits, &c.OccupiedUnits, &c.TotalVehicles,
		&c.PendingComplaints, &c.OverdueBills, &c.PendingCameraRequests,
		&c.PendingTenancyRequests, &c.ActiveNotifications,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *statsRepo) MonthlyCounts(ctx context.Context, since time.Time) (*MonthlyCounts, error) {
	var m MonthlyCounts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM complaints WHERE created_at >= $1),
			(SELECT COUNT(*) FROM complaints WHERE resolved_at >= $1),
			(SELECT COUNT(*) FROM bills WHERE created_at >= $1),
			(SELECT COUNT(*) FROM bills WHERE status='paid' AND payment_date >= $1),
			(SELECT COALESCE(SUM(amount_paise + late_fee_paise - discount_paise), 0)::bigint
				FROM bills WHERE status='paid' AND payment_date >= $1),
			(SELECT COUNT(*) FROM users WHERE created_at >= $1)
	`, since).Scan(
		&m.NewComplaints, &m.ResolvedComplaints, &m.BillsRaised, &m.BillsPaid, &m.CollectedPaise, &m.NewUsers,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
