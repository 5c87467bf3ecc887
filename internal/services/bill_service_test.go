package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/utils"
)

func newBillFixture(t *testing.T) (*fixture, *BillService, *fakeBills) {
	f := newFixture(t)
	f.withOwner(t, f.a101, f.alice)
	repo := &fakeBills{t: newTable[models.Bill]()}
	return f, NewBillService(repo, f.units, f.callers, f.activity), repo
}

func maintenanceBill(f *fixture) dtos.CreateBillRequest {
	return dtos.CreateBillRequest{
		UnitID:        f.a101,
		BillType:      "maintenance",
		Month:         3,
		Year:          2026,
		AmountPaise:   250000,
		LateFeePaise:  5000,
		DiscountPaise: 10000,
		DueDate:       "2026-03-10",
	}
}

func TestBill_CreateComputesTotal(t *testing.T) {
	f, svc, _ := newBillFixture(t)

	b, err := svc.Create(context.Background(), f.admin, maintenanceBill(f))
	require.NoError(t, err)
	require.Equal(t, models.BillUnpaid, b.Status)
	require.Equal(t, int64(245000), b.TotalPaise())
	require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), b.DueDate)

	req := maintenanceBill(f)
	req.DiscountPaise = 300000
	_, err = svc.Create(context.Background(), f.admin, req)
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	req = maintenanceBill(f)
	req.UnitID = f.alice
	_, err = svc.Create(context.Background(), f.admin, req)
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestBill_MeterReadings(t *testing.T) {
	f, svc, _ := newBillFixture(t)
	prev, cur, rate := 1200.0, 1350.0, int64(800)

	req := maintenanceBill(f)
	req.BillType = "electricity"
	req.AmountPaise = 0
	req.LateFeePaise = 0
	req.DiscountPaise = 0
	req.PreviousReading = &prev
	req.CurrentReading = &cur
	req.RatePerUnitPaise = &rate

	b, err := svc.Create(context.Background(), f.admin, req)
	require.NoError(t, err)
	require.InDelta(t, 150.0, *b.UnitsConsumed, 0.001)
	require.Equal(t, int64(120000), b.AmountPaise)
}

func TestBill_ReceiptOnlyForPaidBillsInScope(t *testing.T) {
	ctx := context.Background()
	f, svc, repo := newBillFixture(t)
	svc.now = func() time.Time { return time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC) }

	b, err := svc.Create(ctx, f.admin, maintenanceBill(f))
	require.NoError(t, err)
	_ = repo.t.update(b.ID, func(b *models.Bill) error { b.Serial = 42; return nil })

	_, _, err = svc.Receipt(ctx, f.alice, b.ID)
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeInvalidState)

	paid, upi, txn := "paid", "upi", "TXN-778"
	updated, err := svc.Update(ctx, f.admin, b.ID, dtos.UpdateBillRequest{Status: &paid, PaymentMode: &upi, TransactionID: &txn})
	require.NoError(t, err)
	require.Equal(t, f.admin, *updated.VerifiedBy)
	require.NotNil(t, updated.PaymentDate)

	_, _, err = svc.Receipt(ctx, f.carol, b.ID)
	requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	body, filename, err := svc.Receipt(ctx, f.alice, b.ID)
	require.NoError(t, err)
	require.Equal(t, "receipt_NCR000042_A-101_2026_03.txt", filename)
	text := string(body)
	require.Contains(t, text, "Receipt No : NCR000042")
	require.Contains(t, text, "TOTAL PAID : Rs. 2450.00")
	require.Contains(t, text, "Discount   : -Rs. 100.00")
	require.Contains(t, text, "Mode       : upi")
	require.Contains(t, text, "Txn ID     : TXN-778")
}

func TestBill_ListIsScopedToOccupiedUnits(t *testing.T) {
	ctx := context.Background()
	f, svc, _ := newBillFixture(t)

	_, err := svc.Create(ctx, f.admin, maintenanceBill(f))
	require.NoError(t, err)
	other := maintenanceBill(f)
	other.UnitID = f.b202
	_, err = svc.Create(ctx, f.admin, other)
	require.NoError(t, err)

	list, err := svc.List(ctx, f.alice, repositories.BillFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, f.a101, list[0].UnitID)

	list, err = svc.List(ctx, f.admin, repositories.BillFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestFormatRupees(t *testing.T) {
	require.Equal(t, "Rs. 0.00", formatRupees(0))
	require.Equal(t, "Rs. 12.05", formatRupees(1205))
	require.Equal(t, "-Rs. 1.50", formatRupees(-150))
}

func TestBill_UpdateRejectsBadPaymentDate(t *testing.T) {
	ctx := context.Background()
	f, svc, repo := newBillFixture(t)
	b, err := svc.Create(ctx, f.admin, maintenanceBill(f))
	require.NoError(t, err)

	paid, bad := "paid", "12/03/2026"
	_, err = svc.Update(ctx, f.admin, b.ID, dtos.UpdateBillRequest{Status: &paid, PaymentDate: &bad})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	stored := repo.t.get(b.ID)
	require.Equal(t, models.BillUnpaid, stored.Status)
	require.Nil(t, stored.PaymentDate)
}
