package controllers

import (
	"net/http"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

type UserController struct {
	requestDecoder
	userService *services.UserService
}

func NewUserController(s *services.UserService) *UserController {
	return &UserController{requestDecoder: newRequestDecoder(), userService: s}
}

// GET /api/v1/user-status
func (c *UserController) StatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	resp, err := c.userService.Status(r.Context(), userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/v1/profile
func (c *UserController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "UpdateProfileHandler")

	userID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateProfileRequest
	if !c.decode(w, r, &req) {
		return
	}
	user, err := c.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		logger.WithField("userID", userID).WithError(err).Warn("Profile update failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// GET /api/v1/users
func (c *UserController) ListHandler(w http.ResponseWriter, r *http.Request) {
	f := repositories.UserFilter{Query: r.URL.Query().Get("q")}
	var err error
	if f.IsActive, err = queryBool(r, "is_active"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if f.IsAdmin, err = queryBool(r, "is_admin"); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	users, err := c.userService.List(r.Context(), f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// POST /api/v1/users
func (c *UserController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateUserHandler")

	adminID, err := getCallerID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateUserRequest
	if !c.decode(w, r, &req) {
		return
	}
	user, err := c.userService.Create(r.Context(), adminID, req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("userID", user.ID).Info("User created")
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// GET /api/v1/users/{id}
func (c *UserController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	user, err := c.userService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// PATCH /api/v1/users/{id}
func (c *UserController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.UpdateUserRequest
	if !c.decode(w, r, &req) {
		return
	}
	user, err := c.userService.Update(r.Context(), adminID, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// DELETE /api/v1/users/{id}
func (c *UserController) DeactivateHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := c.userService.Deactivate(r.Context(), adminID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "User deactivated", ID: id.String()})
}

// POST /api/v1/users/{id}/assign-unit
func (c *UserController) AssignUnitHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "AssignUnitHandler")

	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.AssignUnitRequest
	if !c.decode(w, r, &req) {
		return
	}
	resp, err := c.userService.AssignUnit(r.Context(), adminID, id, req)
	if err != nil {
		logger.WithField("userID", id).WithError(err).Error("Assign unit failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/users/{id}/remove-from-unit
func (c *UserController) RemoveFromUnitHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "RemoveFromUnitHandler")

	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.RemoveFromUnitRequest
	if !c.decode(w, r, &req) {
		return
	}
	resp, err := c.userService.RemoveFromUnit(r.Context(), adminID, id, req)
	if err != nil {
		logger.WithField("userID", id).WithError(err).Error("Remove from unit failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/users/{id}/reset-password
func (c *UserController) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	adminID, id, err := callerAndID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.ResetPasswordRequest
	if !c.decode(w, r, &req) {
		return
	}
	if err := c.userService.ResetPassword(r.Context(), adminID, id, req); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: "Password reset", ID: id.String()})
}
