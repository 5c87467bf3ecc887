package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

func newUnitFixture(t *testing.T) (*fixture, *UnitService) {
	f := newFixture(t)
	return f, NewUnitService(f.units, f.manager, f.callers, f.activity)
}

func strPtr(s string) *string { return &s }

func TestUnitList_ScopedToOccupants(t *testing.T) {
	ctx := context.Background()
	f, svc := newUnitFixture(t)
	f.withOwner(t, f.a101, f.alice)

	all, err := svc.List(ctx, f.admin, repositories.UnitFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(ctx, f.alice, repositories.UnitFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.a101, mine[0].ID)

	none, err := svc.List(ctx, f.carol, repositories.UnitFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUnitGet_HidesOtherUnits(t *testing.T) {
	ctx := context.Background()
	f, svc := newUnitFixture(t)
	f.withOwner(t, f.a101, f.alice)

	unit, err := svc.Get(ctx, f.alice, f.a101)
	require.NoError(t, err)
	assert.Equal(t, "A-101", unit.UnitNumber)

	_, err = svc.Get(ctx, f.alice, f.b202)
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	_, err = svc.Get(ctx, f.admin, uuid.New())
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestUnitCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults rooms and records activity", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		unit, err := svc.Create(ctx, f.admin, dtos.CreateUnitRequest{
			UnitNumber: "C-303",
			Building:   "C",
			Floor:      3,
			LeaseStart: strPtr("2025-04-01"),
			LeaseEnd:   strPtr("2026-03-31"),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, unit.Bedrooms)
		assert.Equal(t, 1, unit.Bathrooms)
		assert.False(t, unit.IsOccupied)
		assert.NotNil(t, unit.TenantIDs)
		require.NotNil(t, unit.LeaseStart)
		assert.Equal(t, 2025, unit.LeaseStart.Year())

		stored, err := svc.Get(ctx, f.admin, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, "C-303", stored.UnitNumber)

		require.Len(t, f.activity.logs, 1)
		log := f.activity.logs[0]
		assert.Equal(t, models.ActivityCreate, log.Action)
		assert.Equal(t, models.TargetUnit, log.TargetType)
		require.NotNil(t, log.TargetID)
		assert.Equal(t, unit.ID, *log.TargetID)
	})

	t.Run("lease end before start", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		_, err := svc.Create(ctx, f.admin, dtos.CreateUnitRequest{
			UnitNumber: "C-304",
			LeaseStart: strPtr("2025-04-01"),
			LeaseEnd:   strPtr("2025-03-01"),
		})
		requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
		assert.Empty(t, f.activity.logs)
	})

	t.Run("activity failure does not fail create", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		f.activity.fail = true
		_, err := svc.Create(ctx, f.admin, dtos.CreateUnitRequest{UnitNumber: "C-305"})
		require.NoError(t, err)
	})
}

func TestUnitAssignments(t *testing.T) {
	ctx := context.Background()
	f, svc := newUnitFixture(t)

	history, err := svc.Assignments(ctx, f.b202)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	f.withOwner(t, f.b202, f.bob)
	history, err = svc.Assignments(ctx, f.b202)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, f.bob, history[0].UserID)
	assert.Equal(t, models.RoleOwner, history[0].Role)
	assert.Nil(t, history[0].RevokedAt)

	_, err = svc.Assignments(ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestUnitDelete_KeepsOccupancyHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("occupied unit", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		f.withOwner(t, f.a101, f.alice)

		err := svc.Delete(ctx, f.admin, f.a101)
		requireAppError(t, err, http.StatusConflict, utils.ErrCodeInvalidState)
		assert.Empty(t, f.units.deleted)
		assert.Len(t, f.store.Assignments(f.a101), 1)
	})

	t.Run("vacated unit with history", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		f.withOwner(t, f.a101, f.alice)
		_, err := f.manager.Revoke(ctx, occupancy.RevokeInput{UnitID: f.a101, UserID: f.alice})
		require.NoError(t, err)
		require.False(t, f.store.Unit(f.a101).IsOccupied)

		err = svc.Delete(ctx, f.admin, f.a101)
		requireAppError(t, err, http.StatusConflict, utils.ErrCodeInvalidState)
		assert.Empty(t, f.units.deleted)
	})

	t.Run("never occupied", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		require.NoError(t, svc.Delete(ctx, f.admin, f.b202))
		assert.Equal(t, []uuid.UUID{f.b202}, f.units.deleted)
		require.Len(t, f.activity.logs, 1)
		assert.Equal(t, models.ActivityDelete, f.activity.logs[0].Action)
	})

	t.Run("history written concurrently", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		f.units.deleteErr = &pgconn.PgError{Code: "23503"}
		err := svc.Delete(ctx, f.admin, f.b202)
		requireAppError(t, err, http.StatusConflict, utils.ErrCodeInvalidState)
	})

	t.Run("unknown unit", func(t *testing.T) {
		f, svc := newUnitFixture(t)
		err := svc.Delete(ctx, f.admin, uuid.New())
		requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
	})
}
