package scope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/models"
)

type world struct {
	alice, bob, carol uuid.UUID
	a101, b202        *models.ResidenceUnit
}

func newWorld() world {
	w := world{alice: uuid.New(), bob: uuid.New(), carol: uuid.New()}
	w.a101 = &models.ResidenceUnit{ID: uuid.New(), UnitNumber: "A-101", OwnerID: &w.alice, TenantIDs: []uuid.UUID{w.bob}, IsOccupied: true}
	w.b202 = &models.ResidenceUnit{ID: uuid.New(), UnitNumber: "B-202"}
	return w
}

func (w world) caller(id uuid.UUID) Caller {
	return NewCaller(id, false, []*models.ResidenceUnit{w.a101, w.b202})
}

func TestNewCaller_CollectsOccupiedUnits(t *testing.T) {
	w := newWorld()
	require.True(t, w.caller(w.alice).OccupiesUnit(w.a101.ID))
	require.True(t, w.caller(w.bob).OccupiesUnit(w.a101.ID))
	require.False(t, w.caller(w.carol).OccupiesUnit(w.a101.ID))
	require.Empty(t, w.caller(w.carol).Units)
}

func TestFilter_AdminSeesEverything(t *testing.T) {
	w := newWorld()
	admin := Caller{UserID: uuid.New(), IsAdmin: true}
	units := []*models.ResidenceUnit{w.a101, w.b202}
	require.Equal(t, units, Filter(units, admin, Unit))

	inactive := &models.Notification{IsActive: false}
	require.True(t, Visible(inactive, admin, Notification))
}

func TestFilter_Units(t *testing.T) {
	w := newWorld()
	units := []*models.ResidenceUnit{w.a101, w.b202}

	require.Equal(t, []*models.ResidenceUnit{w.a101}, Filter(units, w.caller(w.alice), Unit))
	require.Equal(t, []*models.ResidenceUnit{w.a101}, Filter(units, w.caller(w.bob), Unit))
	require.Empty(t, Filter(units, w.caller(w.carol), Unit))
}

func TestFilter_ComplaintsByAuthorOrUnit(t *testing.T) {
	w := newWorld()
	byBob := &models.Complaint{ID: uuid.New(), AuthorID: w.bob, UnitID: w.a101.ID}
	byCarolElsewhere := &models.Complaint{ID: uuid.New(), AuthorID: w.carol, UnitID: w.b202.ID}
	byCarolOnA101 := &models.Complaint{ID: uuid.New(), AuthorID: w.carol, UnitID: w.a101.ID}
	all := []*models.Complaint{byBob, byCarolElsewhere, byCarolOnA101}

	require.Equal(t, []*models.Complaint{byBob, byCarolOnA101}, Filter(all, w.caller(w.alice), Complaint))
	require.Equal(t, []*models.Complaint{byCarolElsewhere, byCarolOnA101}, Filter(all, w.caller(w.carol), Complaint))
}

func TestFilter_BillsAndVehicles(t *testing.T) {
	w := newWorld()
	bills := []*models.Bill{{UnitID: w.a101.ID}, {UnitID: w.b202.ID}}
	require.Len(t, Filter(bills, w.caller(w.bob), Bill), 1)
	require.Empty(t, Filter(bills, w.caller(w.carol), Bill))

	vehicles := []*models.Vehicle{{ResidentID: w.alice}, {ResidentID: w.bob}}
	require.Equal(t, vehicles[:1], Filter(vehicles, w.caller(w.alice), Vehicle))
}

func TestFilter_CameraRequests(t *testing.T) {
	w := newWorld()
	mine := &models.CameraRequest{RequesterID: w.carol, UnitID: w.b202.ID}
	neighbours := &models.CameraRequest{RequesterID: w.bob, UnitID: w.a101.ID}
	all := []*models.CameraRequest{mine, neighbours}

	require.Equal(t, []*models.CameraRequest{mine}, Filter(all, w.caller(w.carol), CameraRequest))
	require.Equal(t, []*models.CameraRequest{neighbours}, Filter(all, w.caller(w.alice), CameraRequest))
}

func TestFilter_Notifications(t *testing.T) {
	w := newWorld()
	broadcast := &models.Notification{IsActive: true}
	toAlice := &models.Notification{IsActive: true, RecipientIDs: []uuid.UUID{w.alice}}
	inactive := &models.Notification{IsActive: false}
	all := []*models.Notification{broadcast, toAlice, inactive}

	require.Equal(t, []*models.Notification{broadcast, toAlice}, Filter(all, w.caller(w.alice), Notification))
	require.Equal(t, []*models.Notification{broadcast}, Filter(all, w.caller(w.bob), Notification))
}

func TestFilter_TenancyRequests(t *testing.T) {
	w := newWorld()
	byBob := &models.TenancyRequest{ID: uuid.New(), TenantID: w.bob, UnitID: w.a101.ID}
	byCarol := &models.TenancyRequest{ID: uuid.New(), TenantID: w.carol, UnitID: w.a101.ID}
	all := []*models.TenancyRequest{byBob, byCarol}

	require.Equal(t, []*models.TenancyRequest{byBob}, Filter(all, w.caller(w.bob), TenancyRequest))
	require.Equal(t, []*models.TenancyRequest{byCarol}, Filter(all, w.caller(w.carol), TenancyRequest))
	// Owning the unit does not expose the tenant's request.
	require.Empty(t, Filter(all, w.caller(w.alice), TenancyRequest))
}

func TestFilter_Assignments(t *testing.T) {
	w := newWorld()
	aliceOwner := &models.OccupancyAssignment{ID: uuid.New(), UnitID: w.a101.ID, UserID: w.alice, Role: models.RoleOwner}
	bobTenant := &models.OccupancyAssignment{ID: uuid.New(), UnitID: w.a101.ID, UserID: w.bob, Role: models.RoleTenant}
	all := []*models.OccupancyAssignment{aliceOwner, bobTenant}

	require.Equal(t, []*models.OccupancyAssignment{aliceOwner}, Filter(all, w.caller(w.alice), Assignment))
	require.Equal(t, []*models.OccupancyAssignment{bobTenant}, Filter(all, w.caller(w.bob), Assignment))
	require.Empty(t, Filter(all, w.caller(w.carol), Assignment))
}

func TestFilter_ActivityUsesExplicitActor(t *testing.T) {
	w := newWorld()
	logs := []*models.ActivityLog{{UserID: w.alice}, {UserID: w.bob}, {UserID: w.alice}}
	require.Len(t, Filter(logs, w.caller(w.alice), Activity), 2)
	require.Len(t, Filter(logs, w.caller(w.carol), Activity), 0)
}

func TestFilter_PreservesOrderAndIsDeterministic(t *testing.T) {
	w := newWorld()
	var logs []*models.ActivityLog
	for i := 0; i < 10; i++ {
		actor := w.alice
		if i%3 == 0 {
			actor = w.bob
		}
		logs = append(logs, &models.ActivityLog{ID: uuid.New(), UserID: actor})
	}
	first := Filter(logs, w.caller(w.alice), Activity)
	second := Filter(logs, w.caller(w.alice), Activity)
	require.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		require.Less(t, indexOf(logs, first[i-1]), indexOf(logs, first[i]))
	}
}

func indexOf(list []*models.ActivityLog, l *models.ActivityLog) int {
	for i, x := range list {
		if x == l {
			return i
		}
	}
	return -1
}
