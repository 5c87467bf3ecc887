package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
)

type stubStats struct {
	counts repositories.DashboardCounts
	err    error
}

func (s stubStats) DashboardCounts(context.Context) (*repositories.DashboardCounts, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := s.counts
	return &c, nil
}

func (s stubStats) MonthlyCounts(context.Context, time.Time) (*repositories.MonthlyCounts, error) {
	return &repositories.MonthlyCounts{BillsRaised: 4}, nil
}

type stubActivity struct {
	repositories.ActivityLogRepository
	logs []*models.ActivityLog
}

func (s stubActivity) List(_ context.Context, f repositories.ActivityFilter) ([]*models.ActivityLog, error) {
	if f.Limit > 0 && len(s.logs) > f.Limit {
		return s.logs[:f.Limit], nil
	}
	return s.logs, nil
}

func TestDashboardHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		stats := stubStats{counts: repositories.DashboardCounts{TotalUnits: 8, OccupiedUnits: 6}}
		c := NewDashboardController(services.NewDashboardService(stats, stubActivity{}))

		rec := httptest.NewRecorder()
		c.GetHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body dtos.DashboardResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 75.0, body.OccupancyRate)
		assert.Equal(t, 4, body.Monthly.BillsRaised)
		assert.Empty(t, body.RecentActivity)
	})

	t.Run("stats failure is a 500", func(t *testing.T) {
		c := NewDashboardController(services.NewDashboardService(stubStats{err: errors.New("boom")}, stubActivity{}))

		rec := httptest.NewRecorder()
		c.GetHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
