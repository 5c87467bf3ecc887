package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

type UserService struct {
	users     repositories.UserRepository
	units     repositories.UnitRepository
	occupancy *occupancy.Manager
	callers   *CallerResolver
	activity  activityRecorder
}

func NewUserService(
	users repositories.UserRepository,
	units repositories.UnitRepository,
	manager *occupancy.Manager,
	activity repositories.ActivityLogRepository,
) *UserService {
	return &UserService{
		users:     users,
		units:     units,
		occupancy: manager,
		callers:   NewCallerResolver(users, units),
		activity:  activityRecorder{repo: activity, now: time.Now},
	}
}

// Status returns the caller's profile and the units they occupy. It is the
// first call a client makes after sign-in, so it is logged as a login.
func (s *UserService) Status(ctx context.Context, userID uuid.UUID) (*dtos.UserStatusResponse, error) {
	user, _, err := s.callers.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	units, err := s.units.ListByOccupant(ctx, userID)
	if err != nil {
		return nil, utils.Internal("Failed to load residence units", err)
	}

	resp := &dtos.UserStatusResponse{
		User:        user,
		IsAdmin:     user.IsAdmin,
		Units:       make([]dtos.UnitMembership, 0, len(units)),
		Assignments: []*models.OccupancyAssignment{},
	}
	// Own rows only, administrators included.
	self := scope.Caller{UserID: userID}
	for _, u := range units {
		history, err := s.occupancy.History(ctx, u.ID)
		if err != nil {
			return nil, utils.Internal("Failed to load assignment history", err)
		}
		resp.Assignments = append(resp.Assignments, scope.Filter(history, self, scope.Assignment)...)

		role := models.RoleTenant
		if u.IsOwner(userID) {
			role = models.RoleOwner
		}
		resp.Units = append(resp.Units, dtos.UnitMembership{
			UnitID:     u.ID,
			UnitNumber: u.UnitNumber,
			Building:   u.Building,
			Role:       role,
		})
	}

	s.activity.record(ctx, userID, models.ActivityLogin, models.TargetUser, &userID, "User signed in")
	return resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dtos.UpdateProfileRequest) (*models.User, error) {
	if _, _, err := s.callers.Resolve(ctx, userID); err != nil {
		return nil, err
	}

	passwordChanged := false
	var updated *models.User
	err := s.users.UpdateWithRetry(ctx, userID, func(u *models.User) error {
		if req.NewPassword != nil {
			if !utils.CheckPasswordHash(utils.Val(req.CurrentPassword), u.PasswordHash) {
				return utils.BadRequest("Current password is incorrect")
			}
			hash, err := s.policyHash(*req.NewPassword, u.Username)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
			u.ForcePasswordChange = false
			passwordChanged = true
		}
		applyProfile(u, req.Email, req.FirstName, req.LastName, req.PhoneNumber, req.Bio, req.EmergencyContactName, req.EmergencyContactPhone)
		updated = u
		return nil
	})
	if err != nil {
		return nil, updateError(err, "User")
	}

	if passwordChanged {
		s.activity.record(ctx, userID, models.ActivityPasswordChange, models.TargetUser, &userID, "Password changed")
	}
	s.activity.record(ctx, userID, models.ActivityUpdate, models.TargetUser, &userID, "Profile updated")
	return updated, nil
}

func (s *UserService) List(ctx context.Context, f repositories.UserFilter) ([]*models.User, error) {
	users, err := s.users.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list users", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, utils.NotFound("User not found")
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, adminID uuid.UUID, req dtos.CreateUserRequest) (*models.User, error) {
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, utils.Internal("Failed to check username", err)
	}
	if existing != nil {
		return nil, utils.Conflict("Username already in use")
	}

	hash, err := s.policyHash(req.Password, req.Username)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      req.IsAdmin,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, utils.PersistenceError("Failed to create user", err)
	}

	s.activity.record(ctx, adminID, models.ActivityCreate, models.TargetUser, &user.ID,
		fmt.Sprintf("Created user %s", user.Username))
	return user, nil
}

func (s *UserService) Update(ctx context.Context, adminID, id uuid.UUID, req dtos.UpdateUserRequest) (*models.User, error) {
	if id == adminID && ((req.IsActive != nil && !*req.IsActive) || (req.IsAdmin != nil && !*req.IsAdmin)) {
		return nil, utils.BadRequest("Administrators cannot deactivate or demote themselves")
	}

	var updated *models.User
	err := s.users.UpdateWithRetry(ctx, id, func(u *models.User) error {
		applyProfile(u, req.Email, req.FirstName, req.LastName, req.PhoneNumber, req.Bio, req.EmergencyContactName, req.EmergencyContactPhone)
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.IsAdmin != nil {
			u.IsAdmin = *req.IsAdmin
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, updateError(err, "User")
	}

	s.activity.record(ctx, adminID, models.ActivityUpdate, models.TargetUser, &id,
		fmt.Sprintf("Updated user %s", updated.Username))
	return updated, nil
}

// Deactivate disables the account. Users are never hard-deleted because
// assignments and activity rows reference them.
func (s *UserService) Deactivate(ctx context.Context, adminID, id uuid.UUID) error {
	if id == adminID {
		return utils.BadRequest("Administrators cannot deactivate themselves")
	}
	var username string
	err := s.users.UpdateWithRetry(ctx, id, func(u *models.User) error {
		u.IsActive = false
		username = u.Username
		return nil
	})
	if err != nil {
		return updateError(err, "User")
	}
	s.activity.record(ctx, adminID, models.ActivityDelete, models.TargetUser, &id,
		fmt.Sprintf("Deactivated user %s", username))
	return nil
}

func (s *UserService) AssignUnit(ctx context.Context, adminID, userID uuid.UUID, req dtos.AssignUnitRequest) (*dtos.OccupancyChangeResponse, error) {
	if err := s.requireActiveUser(ctx, userID); err != nil {
		return nil, err
	}

	res, err := s.occupancy.Assign(ctx, occupancy.AssignInput{
		UnitID:     req.UnitID,
		UserID:     userID,
		Role:       models.OccupancyRole(req.Role),
		AssignedBy: &adminID,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, occupancyError(err, "assign unit")
	}
	return &dtos.OccupancyChangeResponse{Unit: res.Unit, Assignment: res.Assignment, Changed: res.Changed}, nil
}

func (s *UserService) RemoveFromUnit(ctx context.Context, adminID, userID uuid.UUID, req dtos.RemoveFromUnitRequest) (*dtos.OccupancyChangeResponse, error) {
	res, err := s.occupancy.Revoke(ctx, occupancy.RevokeInput{
		UnitID:    req.UnitID,
		UserID:    userID,
		RevokedBy: &adminID,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, occupancyError(err, "remove user from unit")
	}
	return &dtos.OccupancyChangeResponse{Unit: res.Unit, Changed: res.Changed}, nil
}

// ResetPassword sets a new password chosen by an administrator and forces
// the user to change it on next sign-in.
func (s *UserService) ResetPassword(ctx context.Context, adminID, id uuid.UUID, req dtos.ResetPasswordRequest) error {
	err := s.users.UpdateWithRetry(ctx, id, func(u *models.User) error {
		hash, err := s.policyHash(req.NewPassword, u.Username)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		u.ForcePasswordChange = true
		return nil
	})
	if err != nil {
		return updateError(err, "User")
	}
	s.activity.record(ctx, adminID, models.ActivityPasswordChange, models.TargetUser, &id, "Password reset by administrator")
	return nil
}

func (s *UserService) requireActiveUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return utils.Internal("Failed to load user", err)
	}
	if user == nil {
		return utils.NotFound("User not found")
	}
	if !user.IsActive {
		return utils.BadRequest("User is inactive")
	}
	return nil
}

// policyHash enforces the password policy, including the rule that the
// password must not contain the username, and hashes the result.
func (s *UserService) policyHash(password, username string) (string, error) {
	if violations := utils.PasswordPolicyViolations(password, username); len(violations) > 0 {
		details := make([]dtos.ValidationErrorDetail, 0, len(violations))
		for _, v := range violations {
			details = append(details, dtos.ValidationErrorDetail{
				Field:   "password",
				Message: "Password " + v,
				Code:    "validation_password_policy",
			})
		}
		appErr := utils.BadRequest("Password does not meet the policy")
		appErr.Details = details
		return "", appErr
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.Logger.WithFields(logrus.Fields{"username": username}).WithError(err).Error("Password hashing failed")
		return "", utils.Internal("Failed to set password", err)
	}
	return hash, nil
}

func applyProfile(u *models.User, email, first, last, phone, bio, ecName, ecPhone *string) {
	if email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*email))
	}
	if first != nil {
		u.FirstName = *first
	}
	if last != nil {
		u.LastName = *last
	}
	if phone != nil {
		u.PhoneNumber = phone
	}
	if bio != nil {
		u.Bio = *bio
	}
	if ecName != nil {
		u.EmergencyContactName = *ecName
	}
	if ecPhone != nil {
		u.EmergencyContactPhone = ecPhone
	}
}
