package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type TenancyRequestController struct {
	requestDecoder
	tenancyService *services.TenancyRequestService
}

func NewTenancyRequestController(s *services.TenancyRequestService) *TenancyRequestController {
	return &TenancyRequestController{requestDecoder: newRequestDecoder(), tenancyService: s}
}

// GET /api/v1/tenancy-requests
func (c *TenancyRequestController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	f := repositories.TenancyRequestFilter{Status: models.TenancyRequestStatus(r.URL.Query().Get("status"))}
	if f.UnitID, err = queryUUID(r, "unit_id"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.tenancyService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/tenancy-requests
func (c *TenancyRequestController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateTenancyRequestRequest
	if !c.decode(w, r, &req) {
		return
	}
	tr, err := c.tenancyService.Create(r.Context(), callerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, tr)
}

// POST /api/v1/tenancy-requests/{id}/approve
func (c *TenancyRequestController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	c.process(w, r, c.tenancyService.Approve, "ApproveTenancyRequestHandler")
}

// POST /api/v1/tenancy-requests/{id}/reject
func (c *TenancyRequestController) RejectHandler(w http.ResponseWriter, r *http.Request) {
	c.process(w, r, c.tenancyService.Reject, "RejectTenancyRequestHandler")
}

type tenancyDecision func(ctx context.Context, adminID, id uuid.UUID, req dtos.ProcessTenancyRequestRequest) (*models.TenancyRequest, error)

func (c *TenancyRequestController) process(w http.ResponseWriter, r *http.Request, decide tenancyDecision, handler string) {
	logger := utils.Logger.WithField("handler", handler)

	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.ProcessTenancyRequestRequest
	if !c.decode(w, r, &req) {
		return
	}
	tr, err := decide(r.Context(), adminID, id, req)
	if err != nil {
		logger.WithField("requestID", id).WithError(err).Warn("Tenancy decision failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("requestID", id).Infof("Tenancy request %s", tr.Status)
	utils.RespondWithJSON(w, http.StatusOK, tr)
}
