package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

// table is a tiny keyed store used by the repository fakes. Reads return
// shallow copies so services cannot mutate stored rows behind its back.
type table[T any] struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]*T)}
}

func (t *table[T]) put(id uuid.UUID, v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := *v
	t.rows[id] = &c
}

func (t *table[T]) get(id uuid.UUID) *T {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return nil
	}
	c := *v
	return &c
}

func (t *table[T]) all() []*T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*T, 0, len(t.rows))
	for _, v := range t.rows {
		c := *v
		out = append(out, &c)
	}
	return out
}

func (t *table[T]) update(id uuid.UUID, mutate func(*T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c := *v
	if err := mutate(&c); err != nil {
		return err
	}
	t.rows[id] = &c
	return nil
}

func (t *table[T]) del(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(t.rows, id)
	return nil
}

type fakeUsers struct {
	repositories.UserRepository
	t *table[models.User]
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error { f.t.put(u.ID, u); return nil }
func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.t.get(id), nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.t.all() {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(_ context.Context, fl repositories.UserFilter) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.t.all() {
		if fl.IsActive != nil && u.IsActive != *fl.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u := f.t.get(id); u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return f.t.update(id, mutate)
}

// fakeUnits reads units straight from the occupancy memory store so
// assignments made through the manager are visible to the caller resolver.
type fakeUnits struct {
	repositories.UnitRepository
	store     *occupancy.MemoryStore
	deleted   []uuid.UUID
	deleteErr error
}

func (f *fakeUnits) Create(_ context.Context, u *models.ResidenceUnit) error {
	f.store.PutUnit(u)
	return nil
}

func (f *fakeUnits) Delete(_ context.Context, id uuid.UUID) error {
	if f.store.Unit(id) == nil {
		return pgx.ErrNoRows
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUnits) GetByID(_ context.Context, id uuid.UUID) (*models.ResidenceUnit, error) {
	return f.store.Unit(id), nil
}

func (f *fakeUnits) List(context.Context, repositories.UnitFilter) ([]*models.ResidenceUnit, error) {
	return f.store.Units(), nil
}

func (f *fakeUnits) ListByOccupant(_ context.Context, userID uuid.UUID) ([]*models.ResidenceUnit, error) {
	var out []*models.ResidenceUnit
	for _, u := range f.store.Units() {
		if u.HasOccupant(userID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeActivity struct {
	mu   sync.Mutex
	logs []*models.ActivityLog
	fail bool
}

func (f *fakeActivity) Create(_ context.Context, l *models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("activity table unavailable")
	}
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeActivity) List(_ context.Context, fl repositories.ActivityFilter) ([]*models.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ActivityLog
	for i := len(f.logs) - 1; i >= 0; i-- {
		l := f.logs[i]
		if fl.UserID != nil && l.UserID != *fl.UserID {
			continue
		}
		if fl.Action != "" && l.Action != fl.Action {
			continue
		}
		out = append(out, l)
		if fl.Limit > 0 && len(out) == fl.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeActivity) actions() []models.ActivityAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ActivityAction, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, l.Action)
	}
	return out
}

type fakeTenancyRequests struct {
	repositories.TenancyRequestRepository
	t *table[models.TenancyRequest]
}

func (f *fakeTenancyRequests) Create(_ context.Context, tr *models.TenancyRequest) error {
	f.t.put(tr.ID, tr)
	return nil
}

func (f *fakeTenancyRequests) GetByID(_ context.Context, id uuid.UUID) (*models.TenancyRequest, error) {
	return f.t.get(id), nil
}

func (f *fakeTenancyRequests) List(context.Context, repositories.TenancyRequestFilter) ([]*models.TenancyRequest, error) {
	return f.t.all(), nil
}

func (f *fakeTenancyRequests) Process(_ context.Context, id uuid.UUID, status models.TenancyRequestStatus, by uuid.UUID, notes string, at time.Time) error {
	err := f.t.update(id, func(tr *models.TenancyRequest) error {
		if tr.Status != models.TenancyRequestPending {
			return utils.ErrNoRowsUpdated
		}
		tr.Status = status
		tr.ProcessedBy = &by
		tr.ProcessedAt = &at
		tr.AdminNotes = notes
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.ErrNoRowsUpdated
	}
	return err
}

func (f *fakeTenancyRequests) Reopen(_ context.Context, id uuid.UUID) error {
	return f.t.update(id, func(tr *models.TenancyRequest) error {
		tr.Status = models.TenancyRequestPending
		tr.ProcessedAt = nil
		tr.ProcessedBy = nil
		return nil
	})
}

type fakeVehicles struct {
	repositories.VehicleRepository
	t *table[models.Vehicle]

	searchResident *uuid.UUID
	searchLimit    int
}

func (f *fakeVehicles) Create(_ context.Context, v *models.Vehicle) error {
	for _, existing := range f.t.all() {
		if existing.VehicleNumber == v.VehicleNumber {
			return uniqueViolation()
		}
	}
	f.t.put(v.ID, v)
	return nil
}

func (f *fakeVehicles) GetByID(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return f.t.get(id), nil
}

func (f *fakeVehicles) List(context.Context, repositories.VehicleFilter) ([]*models.Vehicle, error) {
	return f.t.all(), nil
}

func (f *fakeVehicles) Search(_ context.Context, _ string, residentID *uuid.UUID, limit int) ([]*repositories.VehicleSearchHit, error) {
	f.searchResident = residentID
	f.searchLimit = limit
	var out []*repositories.VehicleSearchHit
	for _, v := range f.t.all() {
		if residentID != nil && v.ResidentID != *residentID {
			continue
		}
		out = append(out, &repositories.VehicleSearchHit{Vehicle: v, OwnerName: "Resident", UnitNumbers: []string{"A-101"}})
	}
	return out, nil
}

type fakeComplaints struct {
	repositories.ComplaintRepository
	t *table[models.Complaint]
}

func (f *fakeComplaints) Create(_ context.Context, c *models.Complaint) error {
	f.t.put(c.ID, c)
	return nil
}

func (f *fakeComplaints) GetByID(_ context.Context, id uuid.UUID) (*models.Complaint, error) {
	return f.t.get(id), nil
}

func (f *fakeComplaints) List(_ context.Context, fl repositories.ComplaintFilter) ([]*models.Complaint, error) {
	var out []*models.Complaint
	for _, c := range f.t.all() {
		if fl.AuthorID != nil && c.AuthorID != *fl.AuthorID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComplaints) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Complaint) error) error {
	return f.t.update(id, mutate)
}

func (f *fakeComplaints) Delete(_ context.Context, id uuid.UUID) error { return f.t.del(id) }

type fakeBills struct {
	repositories.BillRepository
	t *table[models.Bill]

	overdueCutoff time.Time
}

func (f *fakeBills) Create(_ context.Context, b *models.Bill) error {
	f.t.put(b.ID, b)
	return nil
}

func (f *fakeBills) GetByID(_ context.Context, id uuid.UUID) (*models.Bill, error) {
	return f.t.get(id), nil
}

func (f *fakeBills) List(context.Context, repositories.BillFilter) ([]*models.Bill, error) {
	return f.t.all(), nil
}

func (f *fakeBills) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Bill) error) error {
	return f.t.update(id, mutate)
}

func (f *fakeBills) MarkOverdue(_ context.Context, today time.Time) (int64, error) {
	f.overdueCutoff = today
	var n int64
	for _, b := range f.t.all() {
		if (b.Status == models.BillUnpaid || b.Status == models.BillPartial) && b.DueDate.Before(today) {
			_ = f.t.update(b.ID, func(b *models.Bill) error { b.Status = models.BillOverdue; return nil })
			n++
		}
	}
	return n, nil
}

type fakeCameraRequests struct {
	repositories.CameraRequestRepository
	t *table[models.CameraRequest]
}

func (f *fakeCameraRequests) Create(_ context.Context, cr *models.CameraRequest) error {
	f.t.put(cr.ID, cr)
	return nil
}

func (f *fakeCameraRequests) GetByID(_ context.Context, id uuid.UUID) (*models.CameraRequest, error) {
	return f.t.get(id), nil
}

func (f *fakeCameraRequests) List(context.Context, repositories.CameraRequestFilter) ([]*models.CameraRequest, error) {
	return f.t.all(), nil
}

func (f *fakeCameraRequests) Process(_ context.Context, cr *models.CameraRequest) error {
	err := f.t.update(cr.ID, func(stored *models.CameraRequest) error {
		if stored.Status != models.CameraRequestPending {
			return utils.ErrNoRowsUpdated
		}
		*stored = *cr
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.ErrNoRowsUpdated
	}
	return err
}

func (f *fakeCameraRequests) Delete(_ context.Context, id uuid.UUID) error { return f.t.del(id) }

func (f *fakeCameraRequests) ExpireApproved(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, cr := range f.t.all() {
		if cr.Status == models.CameraRequestApproved && cr.ExpiresAt != nil && cr.ExpiresAt.Before(now) {
			_ = f.t.update(cr.ID, func(cr *models.CameraRequest) error {
				cr.Status = models.CameraRequestExpired
				return nil
			})
			n++
		}
	}
	return n, nil
}

type fakeNotifications struct {
	repositories.NotificationRepository
	t *table[models.Notification]
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.t.put(n.ID, n)
	return nil
}

func (f *fakeNotifications) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	return f.t.get(id), nil
}

func (f *fakeNotifications) List(_ context.Context, fl repositories.NotificationFilter) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.t.all() {
		if fl.ActiveOnly && !n.IsActive {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	return f.t.update(id, func(n *models.Notification) error {
		if !slices.Contains(n.ReadByIDs, userID) {
			n.ReadByIDs = append(slices.Clone(n.ReadByIDs), userID)
		}
		return nil
	})
}

func (f *fakeNotifications) Delete(_ context.Context, id uuid.UUID) error { return f.t.del(id) }

type fakeCategories struct {
	repositories.ForumCategoryRepository
	t *table[models.ForumCategory]
}

func (f *fakeCategories) GetByID(_ context.Context, id uuid.UUID) (*models.ForumCategory, error) {
	return f.t.get(id), nil
}

func (f *fakeCategories) ListActive(context.Context) ([]*models.ForumCategory, error) {
	var out []*models.ForumCategory
	for _, c := range f.t.all() {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakePosts struct {
	repositories.ForumPostRepository
	t *table[models.ForumPost]
}

func (f *fakePosts) Create(_ context.Context, p *models.ForumPost) error {
	f.t.put(p.ID, p)
	return nil
}

func (f *fakePosts) GetByID(_ context.Context, id uuid.UUID) (*models.ForumPost, error) {
	return f.t.get(id), nil
}

func (f *fakePosts) List(context.Context, *uuid.UUID) ([]*models.ForumPost, error) {
	return f.t.all(), nil
}

func (f *fakePosts) IncrementViews(_ context.Context, id uuid.UUID) error {
	err := f.t.update(id, func(p *models.ForumPost) error { p.Views++; return nil })
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

// UpdateWithRetry clones the vote slices so a toggle never writes into
// the stored row's backing arrays.
func (f *fakePosts) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.ForumPost) error) error {
	return f.t.update(id, func(p *models.ForumPost) error {
		p.UpvoterIDs = slices.Clone(p.UpvoterIDs)
		p.DownvoterIDs = slices.Clone(p.DownvoterIDs)
		return mutate(p)
	})
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error { return f.t.del(id) }

type fakeComments struct {
	repositories.ForumCommentRepository
	t *table[models.ForumComment]
}

func (f *fakeComments) Create(_ context.Context, c *models.ForumComment) error {
	f.t.put(c.ID, c)
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, id uuid.UUID) (*models.ForumComment, error) {
	return f.t.get(id), nil
}

func (f *fakeComments) ListByPost(_ context.Context, postID uuid.UUID) ([]*models.ForumComment, error) {
	var out []*models.ForumComment
	for _, c := range f.t.all() {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) CountByPost(_ context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(postIDs))
	for _, c := range f.t.all() {
		if slices.Contains(postIDs, c.PostID) {
			out[c.PostID]++
		}
	}
	return out, nil
}

func (f *fakeComments) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.ForumComment) error) error {
	return f.t.update(id, mutate)
}

func (f *fakeComments) Delete(_ context.Context, id uuid.UUID) error { return f.t.del(id) }

type fakeStats struct {
	counts       repositories.DashboardCounts
	monthlySince time.Time
}

func (f *fakeStats) DashboardCounts(context.Context) (*repositories.DashboardCounts, error) {
	c := f.counts
	return &c, nil
}

func (f *fakeStats) MonthlyCounts(_ context.Context, since time.Time) (*repositories.MonthlyCounts, error) {
	f.monthlySince = since
	return &repositories.MonthlyCounts{NewComplaints: 3}, nil
}

type sentEmail struct{ to, subject string }

type fakeEmail struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmail) SendEmail(_ context.Context, _, toEmail, subject, _, _ string) error {
	f.sent = append(f.sent, sentEmail{to: toEmail, subject: subject})
	return f.err
}

type fakeSMS struct {
	sent []string
}

func (f *fakeSMS) SendSMS(_ context.Context, toPhone, _ string) error {
	f.sent = append(f.sent, toPhone)
	return nil
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// fixture is a small society: an administrator, three residents and two
// empty units. Alice owns A-101 once withOwner is called.
type fixture struct {
	store    *occupancy.MemoryStore
	manager  *occupancy.Manager
	users    *fakeUsers
	units    *fakeUnits
	activity *fakeActivity
	callers  *CallerResolver

	admin, alice, bob, carol uuid.UUID
	a101, b202               uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    occupancy.NewMemoryStore(),
		users:    &fakeUsers{t: newTable[models.User]()},
		activity: &fakeActivity{},
		admin:    uuid.New(),
		alice:    uuid.New(),
		bob:      uuid.New(),
		carol:    uuid.New(),
		a101:     uuid.New(),
		b202:     uuid.New(),
	}
	f.manager = occupancy.NewManager(f.store)
	f.units = &fakeUnits{store: f.store}
	f.callers = NewCallerResolver(f.users, f.units)

	phone := "9876543210"
	for id, name := range map[uuid.UUID]string{f.admin: "admin", f.alice: "alice", f.bob: "bob", f.carol: "carol"} {
		f.users.t.put(id, &models.User{
			ID:          id,
			Username:    name,
			Email:       name + "@example.com",
			IsActive:    true,
			IsAdmin:     id == f.admin,
			PhoneNumber: &phone,
		})
	}
	f.store.PutUnit(&models.ResidenceUnit{ID: f.a101, UnitNumber: "A-101", Building: "A", Bedrooms: 2, Bathrooms: 1})
	f.store.PutUnit(&models.ResidenceUnit{ID: f.b202, UnitNumber: "B-202", Building: "B", Bedrooms: 3, Bathrooms: 2})
	return f
}

func (f *fixture) withOwner(t *testing.T, unitID, userID uuid.UUID) {
	t.Helper()
	_, err := f.manager.Assign(context.Background(), occupancy.AssignInput{
		UnitID: unitID, UserID: userID, Role: models.RoleOwner, AssignedBy: &f.admin,
	})
	require.NoError(t, err)
}

func requireAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.StatusCode)
	require.Equal(t, code, appErr.Code)
}
