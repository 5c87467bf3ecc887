package controllers

import (
	"net/http"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type NotificationController struct {
	requestDecoder
	notificationService *services.NotificationService
}

func NewNotificationController(s *services.NotificationService) *NotificationController {
	return &NotificationController{requestDecoder: newRequestDecoder(), notificationService: s}
}

// GET /api/v1/notifications
func (c *NotificationController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	f := repositories.NotificationFilter{
		NotificationType: models.NotificationType(r.URL.Query().Get("notification_type")),
	}
	activeOnly, err := queryBool(r, "active_only")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if activeOnly != nil {
		f.ActiveOnly = *activeOnly
	}
	list, err := c.notificationService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/notifications
func (c *NotificationController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateNotificationRequest
	if !c.decode(w, r, &req) {
		return
	}
	n, err := c.notificationService.Create(r.Context(), adminID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, n)
}

// GET /api/v1/notifications/{id}
func (c *NotificationController) GetHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	n, err := c.notificationService.Get(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
}

// DELETE /api/v1/notifications/{id}
func (c *NotificationController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.notificationService.Delete(r.Context(), adminID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Notification deleted", ID: id.String()})
}

// POST /api/v1/notifications/{id}/mark-read
func (c *NotificationController) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.notificationService.MarkRead(r.Context(), callerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Notification marked as read", ID: id.String()})
}
