package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBill_TotalPaise(t *testing.T) {
	b := Bill{AmountPaise: 250000, LateFeePaise: 5000, DiscountPaise: 10000}
	require.Equal(t, int64(245000), b.TotalPaise())
}

func TestBill_IsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	due := Bill{Status: BillUnpaid, DueDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)}
	require.False(t, due.IsOverdue(now), "due today is not overdue")

	late := Bill{Status: BillUnpaid, DueDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)}
	require.True(t, late.IsOverdue(now))

	paid := late
	paid.Status = BillPaid
	require.False(t, paid.IsOverdue(now))
}

func TestComplaint_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)

	c := Complaint{Status: ComplaintOpen, EstimatedResolutionDate: &past}
	require.True(t, c.IsOverdue(now))

	c.Status = ComplaintResolved
	require.False(t, c.IsOverdue(now))

	c.EstimatedResolutionDate = nil
	c.Status = ComplaintOpen
	require.False(t, c.IsOverdue(now))
}
