package controllers

import (
	"net/http"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type CameraRequestController struct {
	requestDecoder
	cameraService *services.CameraRequestService
}

func NewCameraRequestController(s *services.CameraRequestService) *CameraRequestController {
	return &CameraRequestController{requestDecoder: newRequestDecoder(), cameraService: s}
}

// GET /api/v1/camera-requests
func (c *CameraRequestController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	f := repositories.CameraRequestFilter{Status: models.CameraRequestStatus(r.URL.Query().Get("status"))}
	list, err := c.cameraService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/camera-requests
func (c *CameraRequestController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateCameraRequestRequest
	if !c.decode(w, r, &req) {
		return
	}
	cr, err := c.cameraService.Create(r.Context(), callerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, cr)
}

// GET /api/v1/camera-requests/{id}
func (c *CameraRequestController) GetHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	cr, err := c.cameraService.Get(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cr)
}

// DELETE /api/v1/camera-requests/{id}
func (c *CameraRequestController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.cameraService.Delete(r.Context(), callerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Camera request deleted", ID: id.String()})
}

// POST /api/v1/camera-requests/{id}/process
func (c *CameraRequestController) ProcessHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "ProcessCameraRequestHandler")

	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.ProcessCameraRequestRequest
	if !c.decode(w, r, &req) {
		return
	}
	cr, err := c.cameraService.Process(r.Context(), adminID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("requestID", id).Infof("Camera request %s", cr.Status)
	utils.RespondWithJSON(w, http.StatusOK, cr)
}
