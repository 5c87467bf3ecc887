package controllers

import (
	"net/http"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type ComplaintController struct {
	requestDecoder
	complaintService *services.ComplaintService
}

func NewComplaintController(s *services.ComplaintService) *ComplaintController {
	return &ComplaintController{requestDecoder: newRequestDecoder(), complaintService: s}
}

// GET /api/v1/complaints
func (c *ComplaintController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	q := r.URL.Query()
	f := repositories.ComplaintFilter{
		Status:   models.ComplaintStatus(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
		Category: models.ComplaintCategory(q.Get("category")),
	}
	list, err := c.complaintService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/complaints/mine
func (c *ComplaintController) MineHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.complaintService.Mine(r.Context(), callerID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/complaints
func (c *ComplaintController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateComplaintRequest
	if !c.decode(w, r, &req) {
		return
	}
	complaint, err := c.complaintService.Create(r.Context(), callerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, complaint)
}

// GET /api/v1/complaints/{id}
func (c *ComplaintController) GetHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	complaint, err := c.complaintService.Get(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, complaint)
}

// PATCH /api/v1/complaints/{id}
func (c *ComplaintController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateComplaintRequest
	if !c.decode(w, r, &req) {
		return
	}
	complaint, err := c.complaintService.Update(r.Context(), callerID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, complaint)
}

// DELETE /api/v1/complaints/{id}
func (c *ComplaintController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.complaintService.Delete(r.Context(), callerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Complaint deleted", ID: id.String()})
}

// POST /api/v1/complaints/{id}/update-status
func (c *ComplaintController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "UpdateComplaintStatusHandler")

	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateComplaintStatusRequest
	if !c.decode(w, r, &req) {
		return
	}
	complaint, err := c.complaintService.UpdateStatus(r.Context(), adminID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("complaintID", id).Infof("Complaint moved to %s", complaint.Status)
	utils.RespondWithJSON(w, http.StatusOK, complaint)
}
