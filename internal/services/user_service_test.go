package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/utils"
)

func newUserFixture(t *testing.T) (*fixture, *UserService) {
	f := newFixture(t)
	return f, NewUserService(f.users, f.units, f.manager, f.activity)
}

func TestUser_AssignAndRemoveUnit(t *testing.T) {
	ctx := context.Background()
	f, svc := newUserFixture(t)

	res, err := svc.AssignUnit(ctx, f.admin, f.alice, dtos.AssignUnitRequest{UnitID: f.a101, Role: "owner"})
	require.NoError(t, err)
	require.True(t, res.Unit.IsOwner(f.alice))
	require.True(t, res.Unit.IsOccupied)
	require.Equal(t, models.RoleOwner, res.Assignment.Role)

	res, err = svc.AssignUnit(ctx, f.admin, f.bob, dtos.AssignUnitRequest{UnitID: f.a101, Role: "tenant"})
	require.NoError(t, err)
	require.Equal(t, []string{"A-101"}, unitNumbers(t, svc, f.bob))

	res, err = svc.RemoveFromUnit(ctx, f.admin, f.alice, dtos.RemoveFromUnitRequest{UnitID: f.a101})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Nil(t, res.Unit.OwnerID)
	require.True(t, res.Unit.IsOccupied)

	_, err = svc.AssignUnit(ctx, f.admin, f.alice, dtos.AssignUnitRequest{UnitID: f.alice, Role: "owner"})
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func unitNumbers(t *testing.T, svc *UserService, id uuid.UUID) []string {
	t.Helper()
	st, err := svc.Status(context.Background(), id)
	require.NoError(t, err)
	out := make([]string, 0, len(st.Units))
	for _, u := range st.Units {
		out = append(out, u.UnitNumber)
	}
	return out
}

func TestUser_AssignRejectsInactiveUser(t *testing.T) {
	ctx := context.Background()
	f, svc := newUserFixture(t)
	require.NoError(t, svc.Deactivate(ctx, f.admin, f.carol))

	_, err := svc.AssignUnit(ctx, f.admin, f.carol, dtos.AssignUnitRequest{UnitID: f.a101, Role: "tenant"})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	_, err = svc.Status(ctx, f.carol)
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)
}

func TestUser_AdminCannotDemoteSelf(t *testing.T) {
	ctx := context.Background()
	f, svc := newUserFixture(t)
	no := false

	_, err := svc.Update(ctx, f.admin, f.admin, dtos.UpdateUserRequest{IsAdmin: &no})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	err = svc.Deactivate(ctx, f.admin, f.admin)
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

func TestUser_PasswordChangeRequiresCurrentPassword(t *testing.T) {
	ctx := context.Background()
	f, svc := newUserFixture(t)

	require.NoError(t, svc.ResetPassword(ctx, f.admin, f.alice, dtos.ResetPasswordRequest{NewPassword: "Welcome#2026"}))
	require.True(t, f.users.t.get(f.alice).ForcePasswordChange)

	wrong, next := "Nope#2026x", "Sunrise@A101"
	_, err := svc.UpdateProfile(ctx, f.alice, dtos.UpdateProfileRequest{CurrentPassword: &wrong, NewPassword: &next})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	current := "Welcome#2026"
	weak := "alice#Pass1"
	_, err = svc.UpdateProfile(ctx, f.alice, dtos.UpdateProfileRequest{CurrentPassword: &current, NewPassword: &weak})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.NotEmpty(t, appErr.Details)

	u, err := svc.UpdateProfile(ctx, f.alice, dtos.UpdateProfileRequest{CurrentPassword: &current, NewPassword: &next})
	require.NoError(t, err)
	require.False(t, u.ForcePasswordChange)
	require.True(t, utils.CheckPasswordHash(next, u.PasswordHash))
	require.Contains(t, f.activity.actions(), models.ActivityPasswordChange)
}

func TestUser_StatusListsOwnAssignments(t *testing.T) {
	ctx := context.Background()
	f, svc := newUserFixture(t)
	f.withOwner(t, f.a101, f.alice)
	_, err := svc.AssignUnit(ctx, f.admin, f.bob, dtos.AssignUnitRequest{UnitID: f.a101, Role: "tenant"})
	require.NoError(t, err)

	status, err := svc.Status(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, status.Units, 1)
	require.Len(t, status.Assignments, 1)
	require.Equal(t, f.bob, status.Assignments[0].UserID)
	require.Equal(t, models.RoleTenant, status.Assignments[0].Role)

	status, err = svc.Status(ctx, f.carol)
	require.NoError(t, err)
	require.NotNil(t, status.Assignments)
	require.Empty(t, status.Assignments)
}
