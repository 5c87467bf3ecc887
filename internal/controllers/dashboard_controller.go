package controllers

import (
	"net/http"

	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type DashboardController struct {
	dashboardService *services.DashboardService
}

func NewDashboardController(s *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: s}
}

// GET /api/v1/admin/dashboard
func (c *DashboardController) GetHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboardService.Get(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
