package controllers

import (
	"net/http"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type VehicleController struct {
	requestDecoder
	vehicleService *services.VehicleService
}

func NewVehicleController(s *services.VehicleService) *VehicleController {
	return &VehicleController{requestDecoder: newRequestDecoder(), vehicleService: s}
}

// GET /api/v1/vehicles
func (c *VehicleController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	f := repositories.VehicleFilter{VehicleType: models.VehicleType(r.URL.Query().Get("vehicle_type"))}
	if f.IsActive, err = queryBool(r, "is_active"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.vehicleService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/vehicles/search?q=
func (c *VehicleController) SearchHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	resp, err := c.vehicleService.Search(r.Context(), callerID, r.URL.Query().Get("q"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/vehicles
func (c *VehicleController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateVehicleRequest
	if !c.decode(w, r, &req) {
		return
	}
	v, err := c.vehicleService.Create(r.Context(), callerID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, v)
}

// GET /api/v1/vehicles/{id}
func (c *VehicleController) GetHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	v, err := c.vehicleService.Get(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

// PATCH /api/v1/vehicles/{id}
func (c *VehicleController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateVehicleRequest
	if !c.decode(w, r, &req) {
		return
	}
	v, err := c.vehicleService.Update(r.Context(), callerID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

// DELETE /api/v1/vehicles/{id}
func (c *VehicleController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.vehicleService.Delete(r.Context(), callerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Vehicle deleted", ID: id.String()})
}
