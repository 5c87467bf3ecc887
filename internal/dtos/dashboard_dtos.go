package dtos

import (
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
)

type DashboardResponse struct {
	Counts         *repositories.DashboardCounts `json:"counts"`
	Monthly        *repositories.MonthlyCounts   `json:"monthly"`
	OccupancyRate  float64                       `json:"occupancy_rate"`
	RecentActivity []*models.ActivityLog         `json:"recent_activity"`
}
