package controllers

import (
	"net/http"
	"strings"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type UnitController struct {
	requestDecoder
	unitService *services.UnitService
}

func NewUnitController(s *services.UnitService) *UnitController {
	return &UnitController{requestDecoder: newRequestDecoder(), unitService: s}
}

// GET /api/v1/units
func (c *UnitController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	q := r.URL.Query()
	f := repositories.UnitFilter{Building: strings.TrimSpace(q.Get("building")), Query: q.Get("q")}
	if f.Floor, err = queryInt(r, "floor"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if f.IsOccupied, err = queryBool(r, "is_occupied"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	units, err := c.unitService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, units)
}

// POST /api/v1/units
func (c *UnitController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateUnitRequest
	if !c.decode(w, r, &req) {
		return
	}
	unit, err := c.unitService.Create(r.Context(), adminID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.Logger.WithField("unitID", unit.ID).Info("Residence unit created")
	utils.RespondWithJSON(w, http.StatusCreated, unit)
}

// GET /api/v1/units/{id}
func (c *UnitController) GetHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	unit, err := c.unitService.Get(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, unit)
}

// PATCH /api/v1/units/{id}
func (c *UnitController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateUnitRequest
	if !c.decode(w, r, &req) {
		return
	}
	unit, err := c.unitService.Update(r.Context(), adminID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, unit)
}

// DELETE /api/v1/units/{id}
func (c *UnitController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.unitService.Delete(r.Context(), adminID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Residence unit deleted", ID: id.String()})
}

// GET /api/v1/units/{id}/assignments
func (c *UnitController) AssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	history, err := c.unitService.Assignments(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, history)
}
