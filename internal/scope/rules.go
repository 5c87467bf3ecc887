package scope

import "github.com/nconnect/society-backend/internal/models"

// Unit is visible to its owner and tenants. The unit record itself is
// checked, not the caller's unit set, so a freshly assigned occupant sees
// it immediately.
func Unit(u *models.ResidenceUnit, c Caller) bool {
	return u.HasOccupant(c.UserID)
}

func Vehicle(v *models.Vehicle, c Caller) bool {
	return v.ResidentID == c.UserID
}

func Complaint(cp *models.Complaint, c Caller) bool {
	return cp.AuthorID == c.UserID || c.OccupiesUnit(cp.UnitID)
}

func Bill(b *models.Bill, c Caller) bool {
	return c.OccupiesUnit(b.UnitID)
}

func CameraRequest(r *models.CameraRequest, c Caller) bool {
	return r.RequesterID == c.UserID || c.OccupiesUnit(r.UnitID)
}

// Notification is visible when it is active and either addressed to the
// caller or addressed to nobody in particular.
func Notification(n *models.Notification, c Caller) bool {
	if !n.IsActive {
		return false
	}
	return len(n.RecipientIDs) == 0 || n.IsRecipient(c.UserID)
}

func Activity(l *models.ActivityLog, c Caller) bool {
	return l.UserID == c.UserID
}

func TenancyRequest(r *models.TenancyRequest, c Caller) bool {
	return r.TenantID == c.UserID
}

func Assignment(a *models.OccupancyAssignment, c Caller) bool {
	return a.UserID == c.UserID
}
