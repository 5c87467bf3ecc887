package controllers

import (
	"net/http"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type ActivityController struct {
	activityService *services.ActivityService
}

func NewActivityController(s *services.ActivityService) *ActivityController {
	return &ActivityController{activityService: s}
}

// GET /api/v1/activity
func (c *ActivityController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	f := repositories.ActivityFilter{Action: models.ActivityAction(r.URL.Query().Get("action"))}
	if f.UserID, err = queryUUID(r, "user_id"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if limit != nil {
		f.Limit = *limit
	}
	logs, err := c.activityService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, logs)
}
