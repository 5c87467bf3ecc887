package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

func newTenancyService(f *fixture) (*TenancyRequestService, *fakeTenancyRequests) {
	repo := &fakeTenancyRequests{t: newTable[models.TenancyRequest]()}
	return NewTenancyRequestService(repo, f.units, f.manager, f.callers, f.activity), repo
}

func TestTenancyRequest_ApproveAssignsTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withOwner(t, f.a101, f.alice)
	svc, _ := newTenancyService(f)

	tr, err := svc.Create(ctx, f.bob, dtos.CreateTenancyRequestRequest{UnitID: f.a101, Message: "Moving in next month"})
	require.NoError(t, err)
	require.Equal(t, models.TenancyRequestPending, tr.Status)

	// A pending request grants nothing.
	require.False(t, f.store.Unit(f.a101).IsTenant(f.bob))

	approved, err := svc.Approve(ctx, f.admin, tr.ID, dtos.ProcessTenancyRequestRequest{AdminNotes: "ok"})
	require.NoError(t, err)
	require.Equal(t, models.TenancyRequestApproved, approved.Status)
	require.Equal(t, f.admin, *approved.ProcessedBy)

	unit := f.store.Unit(f.a101)
	require.True(t, unit.IsTenant(f.bob))
	require.True(t, unit.IsOwner(f.alice))
	require.True(t, unit.IsOccupied)

	_, err = svc.Approve(ctx, f.admin, tr.ID, dtos.ProcessTenancyRequestRequest{})
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeInvalidState)
}

func TestTenancyRequest_FailedAssignmentReopensRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, repo := newTenancyService(f)

	tr, err := svc.Create(ctx, f.bob, dtos.CreateTenancyRequestRequest{UnitID: f.b202})
	require.NoError(t, err)

	f.store.FailOn(occupancy.StepSaveUnit)
	_, err = svc.Approve(ctx, f.admin, tr.ID, dtos.ProcessTenancyRequestRequest{})
	requireAppError(t, err, http.StatusInternalServerError, utils.ErrCodeInternal)

	stored := repo.t.get(tr.ID)
	require.Equal(t, models.TenancyRequestPending, stored.Status)
	require.Nil(t, stored.ProcessedBy)
	require.False(t, f.store.Unit(f.b202).IsOccupied)
	require.Empty(t, f.store.Assignments(f.b202))

	f.store.FailOn("")
	_, err = svc.Approve(ctx, f.admin, tr.ID, dtos.ProcessTenancyRequestRequest{})
	require.NoError(t, err)
	require.True(t, f.store.Unit(f.b202).IsTenant(f.bob))
}

func TestTenancyRequest_CreateRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withOwner(t, f.a101, f.alice)
	svc, _ := newTenancyService(f)

	_, err := svc.Create(ctx, f.alice, dtos.CreateTenancyRequestRequest{UnitID: f.a101})
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)

	_, err = svc.Create(ctx, f.bob, dtos.CreateTenancyRequestRequest{UnitID: f.carol})
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestTenancyRequest_ListIsScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, _ := newTenancyService(f)

	_, err := svc.Create(ctx, f.bob, dtos.CreateTenancyRequestRequest{UnitID: f.a101})
	require.NoError(t, err)
	_, err = svc.Create(ctx, f.carol, dtos.CreateTenancyRequestRequest{UnitID: f.b202})
	require.NoError(t, err)

	mine, err := svc.List(ctx, f.bob, repositories.TenancyRequestFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, f.bob, mine[0].TenantID)

	all, err := svc.List(ctx, f.admin, repositories.TenancyRequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestTenancyRequest_RejectLeavesUnitAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, _ := newTenancyService(f)

	tr, err := svc.Create(ctx, f.bob, dtos.CreateTenancyRequestRequest{UnitID: f.a101})
	require.NoError(t, err)
	rejected, err := svc.Reject(ctx, f.admin, tr.ID, dtos.ProcessTenancyRequestRequest{AdminNotes: "unit reserved"})
	require.NoError(t, err)
	require.Equal(t, models.TenancyRequestRejected, rejected.Status)
	require.Equal(t, "unit reserved", rejected.AdminNotes)
	require.False(t, f.store.Unit(f.a101).IsOccupied)
}
