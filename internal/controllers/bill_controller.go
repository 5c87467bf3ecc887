package controllers

import (
	"fmt"
	"net/http"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type BillController struct {
	requestDecoder
	billService *services.BillService
}

func NewBillController(s *services.BillService) *BillController {
	return &BillController{requestDecoder: newRequestDecoder(), billService: s}
}

// GET /api/v1/bills
func (c *BillController) ListHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	q := r.URL.Query()
	f := repositories.BillFilter{
		Status:   models.BillStatus(q.Get("status")),
		BillType: models.BillType(q.Get("bill_type")),
	}
	if f.UnitID, err = queryUUID(r, "unit_id"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if f.Year, err = queryInt(r, "year"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if f.Month, err = queryInt(r, "month"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.billService.List(r.Context(), callerID, f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/bills
func (c *BillController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateBillRequest
	if !c.decode(w, r, &req) {
		return
	}
	bill, err := c.billService.Create(r.Context(), adminID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, bill)
}

// GET /api/v1/bills/{id}
func (c *BillController) GetHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	bill, err := c.billService.Get(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bill)
}

// PATCH /api/v1/bills/{id}
func (c *BillController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateBillRequest
	if !c.decode(w, r, &req) {
		return
	}
	bill, err := c.billService.Update(r.Context(), adminID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bill)
}

// DELETE /api/v1/bills/{id}
func (c *BillController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.billService.Delete(r.Context(), adminID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Bill deleted", ID: id.String()})
}

// GET /api/v1/bills/{id}/receipt
func (c *BillController) ReceiptHandler(w http.ResponseWriter, r *http.Request) {
	callerID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	body, filename, err := c.billService.Receipt(r.Context(), callerID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		utils.Logger.WithField("billID", id).WithError(err).Warn("Failed to write receipt")
	}
}
