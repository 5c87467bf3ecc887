package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

func newVehicleFixture(t *testing.T) (*fixture, *VehicleService, *fakeVehicles) {
	f := newFixture(t)
	repo := &fakeVehicles{t: newTable[models.Vehicle]()}
	for _, v := range []*models.Vehicle{
		{ID: uuid.New(), ResidentID: f.alice, VehicleNumber: "MH12AB1234", VehicleType: models.VehicleCar, IsActive: true},
		{ID: uuid.New(), ResidentID: f.bob, VehicleNumber: "MH14CD5678", VehicleType: models.VehicleTwoWheeler, IsActive: true},
	} {
		repo.t.put(v.ID, v)
	}
	return f, NewVehicleService(repo, f.callers, f.activity), repo
}

func TestVehicleSearch_LimitsByRole(t *testing.T) {
	ctx := context.Background()
	f, svc, repo := newVehicleFixture(t)

	resp, err := svc.Search(ctx, f.admin, "MH")
	require.NoError(t, err)
	require.Equal(t, utils.VehicleSearchAdminLimit, repo.searchLimit)
	require.Nil(t, repo.searchResident)
	require.Equal(t, 2, resp.Count)

	resp, err = svc.Search(ctx, f.alice, "  MH ")
	require.NoError(t, err)
	require.Equal(t, utils.VehicleSearchResidentLimit, repo.searchLimit)
	require.Equal(t, f.alice, *repo.searchResident)
	require.Equal(t, "MH", resp.Query)
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "MH12AB1234", resp.Results[0].VehicleNumber)
	require.Equal(t, []string{"A-101"}, resp.Results[0].FlatNumbers)
}

func TestVehicleSearch_RejectsShortQuery(t *testing.T) {
	f, svc, _ := newVehicleFixture(t)
	_, err := svc.Search(context.Background(), f.alice, " M ")
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

func TestVehicle_ScopeAndDuplicates(t *testing.T) {
	ctx := context.Background()
	f, svc, _ := newVehicleFixture(t)

	list, err := svc.List(ctx, f.bob, repositories.VehicleFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, f.bob, list[0].ResidentID)

	other := list[0].ID
	_, err = svc.Get(ctx, f.alice, other)
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
	_, err = svc.Get(ctx, f.admin, other)
	require.NoError(t, err)

	req := dtos.CreateVehicleRequest{VehicleNumber: "mh-12 ab 1234", VehicleType: "car"}
	req.Normalize()
	_, err = svc.Create(ctx, f.carol, req)
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)

	created, err := svc.Create(ctx, f.carol, dtos.CreateVehicleRequest{VehicleNumber: "KA01Z9999", VehicleType: "suv"})
	require.NoError(t, err)
	require.Equal(t, f.carol, created.ResidentID)
	require.True(t, created.IsActive)
}

func TestVehicle_CreateRejectsBadExpiryDates(t *testing.T) {
	ctx := context.Background()
	f, svc, repo := newVehicleFixture(t)
	before := len(repo.t.all())

	bad := "2026-13-01"
	_, err := svc.Create(ctx, f.carol, dtos.CreateVehicleRequest{VehicleNumber: "KA01Z9999", VehicleType: "car", InsuranceExpiry: &bad})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	_, err = svc.Create(ctx, f.carol, dtos.CreateVehicleRequest{VehicleNumber: "KA01Z9999", VehicleType: "car", PollutionExpiry: &bad})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	require.Len(t, repo.t.all(), before)
}
