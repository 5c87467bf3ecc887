package services

import (
	"context"
	"math"
	"time"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

const RecentActivityLimit = 10

type DashboardService struct {
	stats repositories.StatsRepository
	logs  repositories.ActivityLogRepository
	now   func() time.Time
}

func NewDashboardService(stats repositories.StatsRepository, logs repositories.ActivityLogRepository) *DashboardService {
	return &DashboardService{stats: stats, logs: logs, now: time.Now}
}

// Get assembles the admin dashboard. Monthly figures cover the calendar
// month so far.
func (s *DashboardService) Get(ctx context.Context) (*dtos.DashboardResponse, error) {
	counts, err := s.stats.DashboardCounts(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to load dashboard counts", err)
	}
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthly, err := s.stats.MonthlyCounts(ctx, monthStart)
	if err != nil {
		return nil, utils.Internal("Failed to load monthly statistics", err)
	}
	recent, err := s.logs.List(ctx, repositories.ActivityFilter{Limit: RecentActivityLimit})
	if err != nil {
		return nil, utils.Internal("Failed to load recent activity", err)
	}

	return &dtos.DashboardResponse{
		Counts:         counts,
		Monthly:        monthly,
		OccupancyRate:  occupancyRate(counts.OccupiedUnits, counts.TotalUnits),
		RecentActivity: nonNil(recent),
	}, nil
}

// occupancyRate is a percentage rounded to one decimal place.
func occupancyRate(occupied, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(occupied)*1000/float64(total)) / 10
}
