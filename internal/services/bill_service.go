package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

type BillService struct {
	bills    repositories.BillRepository
	units    repositories.UnitRepository
	callers  *CallerResolver
	activity activityRecorder
	now      func() time.Time
}

func NewBillService(
	bills repositories.BillRepository,
	units repositories.UnitRepository,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
) *BillService {
	return &BillService{
		bills:    bills,
		units:    units,
		callers:  callers,
		activity: activityRecorder{repo: activity, now: time.Now},
		now:      time.Now,
	}
}

func (s *BillService) List(ctx context.Context, callerID uuid.UUID, f repositories.BillFilter) ([]*models.Bill, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	list, err := s.bills.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list bills", err)
	}
	return scope.Filter(nonNil(list), caller, scope.Bill), nil
}

func (s *BillService) Get(ctx context.Context, callerID, id uuid.UUID) (*models.Bill, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.visible(ctx, caller, id)
}

func (s *BillService) Create(ctx context.Context, adminID uuid.UUID, req dtos.CreateBillRequest) (*models.Bill, error) {
	unit, err := s.units.GetByID(ctx, req.UnitID)
	if err != nil {
		return nil, utils.Internal("Failed to load residence unit", err)
	}
	if unit == nil {
		return nil, utils.NotFound("Residence unit not found")
	}
	due, err := dtos.ParseDate(&req.DueDate)
	if err != nil || due == nil {
		return nil, utils.BadRequest("Invalid due date")
	}

	b := &models.Bill{
		ID:               uuid.New(),
		UnitID:           unit.ID,
		BillType:         models.BillType(req.BillType),
		Month:            req.Month,
		Year:             req.Year,
		AmountPaise:      req.AmountPaise,
		PreviousReading:  req.PreviousReading,
		CurrentReading:   req.CurrentReading,
		RatePerUnitPaise: req.RatePerUnitPaise,
		DueDate:          *due,
		Status:           models.BillUnpaid,
		Description:      req.Description,
		LateFeePaise:     req.LateFeePaise,
		DiscountPaise:    req.DiscountPaise,
	}
	if err := applyMeterReadings(b); err != nil {
		return nil, err
	}
	if b.TotalPaise() < 0 {
		return nil, utils.BadRequest("Discount cannot exceed the bill amount")
	}
	if err := s.bills.Create(ctx, b); err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.Conflict("A bill of this type already exists for the unit and period")
		}
		return nil, utils.Internal("Failed to create bill", err)
	}
	s.activity.record(ctx, adminID, models.ActivityCreate, models.TargetBill, &b.ID,
		fmt.Sprintf("Raised %s bill %02d/%d for unit %s", b.BillType, b.Month, b.Year, unit.UnitNumber))
	return b, nil
}

// Update corrects a bill or records its payment. Marking a bill paid
// stamps the verifying administrator and defaults the payment date.
func (s *BillService) Update(ctx context.Context, adminID, id uuid.UUID, req dtos.UpdateBillRequest) (*models.Bill, error) {
	now := s.now()
	var updated *models.Bill
	err := s.bills.UpdateWithRetry(ctx, id, func(b *models.Bill) error {
		if req.AmountPaise != nil {
			b.AmountPaise = *req.AmountPaise
		}
		if req.PreviousReading != nil {
			b.PreviousReading = req.PreviousReading
		}
		if req.CurrentReading != nil {
			b.CurrentReading = req.CurrentReading
		}
		if req.RatePerUnitPaise != nil {
			b.RatePerUnitPaise = req.RatePerUnitPaise
		}
		if req.DueDate != nil {
			due, err := dtos.ParseDate(req.DueDate)
			if err != nil || due == nil {
				return utils.BadRequest("Invalid due date")
			}
			b.DueDate = *due
		}
		if req.Description != nil {
			b.Description = *req.Description
		}
		if req.LateFeePaise != nil {
			b.LateFeePaise = *req.LateFeePaise
		}
		if req.DiscountPaise != nil {
			b.DiscountPaise = *req.DiscountPaise
		}
		if req.PaymentMode != nil {
			mode := models.PaymentMode(*req.PaymentMode)
			b.PaymentMode = &mode
		}
		if req.TransactionID != nil {
			b.TransactionID = *req.TransactionID
		}
		if req.PaymentDate != nil {
			paid, err := dtos.ParseDate(req.PaymentDate)
			if err != nil {
				return utils.BadRequest("Invalid payment date")
			}
			b.PaymentDate = paid
		}
		if req.Status != nil {
			b.Status = models.BillStatus(*req.Status)
			if b.Status == models.BillPaid {
				if b.PaymentDate == nil {
					b.PaymentDate = &now
				}
				b.VerifiedBy = &adminID
				b.VerifiedAt = &now
			}
		}
		if err := applyMeterReadings(b); err != nil {
			return err
		}
		if b.TotalPaise() < 0 {
			return utils.BadRequest("Discount cannot exceed the bill amount")
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, updateError(err, "Bill")
	}
	s.activity.record(ctx, adminID, models.ActivityUpdate, models.TargetBill, &id,
		fmt.Sprintf("Updated bill %02d/%d (%s)", updated.Month, updated.Year, updated.Status))
	return updated, nil
}

func (s *BillService) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	if err := s.bills.Delete(ctx, id); err != nil {
		return deleteError(err, "Bill")
	}
	s.activity.record(ctx, adminID, models.ActivityDelete, models.TargetBill, &id, "Deleted bill")
	return nil
}

// Receipt renders a plain-text receipt for a paid bill in the caller's
// scope.
func (s *BillService) Receipt(ctx context.Context, callerID, id uuid.UUID) ([]byte, string, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, "", err
	}
	b, err := s.visible(ctx, caller, id)
	if err != nil {
		return nil, "", err
	}
	if b.Status != models.BillPaid {
		return nil, "", invalidState("Receipts are only available for paid bills")
	}
	unit, err := s.units.GetByID(ctx, b.UnitID)
	if err != nil || unit == nil {
		return nil, "", utils.Internal("Failed to load residence unit", err)
	}

	number := ReceiptNumber(b)
	var buf bytes.Buffer
	if err := renderReceipt(&buf, b, unit, number, s.now()); err != nil {
		return nil, "", utils.Internal("Failed to render receipt", err)
	}
	return buf.Bytes(), fmt.Sprintf("receipt_%s_%s_%d_%02d.txt", number, unit.UnitNumber, b.Year, b.Month), nil
}

func (s *BillService) visible(ctx context.Context, caller scope.Caller, id uuid.UUID) (*models.Bill, error) {
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load bill", err)
	}
	if b == nil || !scope.Visible(b, caller, scope.Bill) {
		return nil, utils.NotFound("Bill not found")
	}
	return b, nil
}

// applyMeterReadings derives consumption from the readings and, for a
// metered bill without an explicit amount, the amount from the rate.
func applyMeterReadings(b *models.Bill) error {
	if b.PreviousReading == nil || b.CurrentReading == nil {
		b.UnitsConsumed = nil
		return nil
	}
	if *b.CurrentReading < *b.PreviousReading {
		return utils.BadRequest("Current reading cannot be lower than the previous reading")
	}
	consumed := *b.CurrentReading - *b.PreviousReading
	b.UnitsConsumed = &consumed
	if b.AmountPaise == 0 && b.RatePerUnitPaise != nil {
		b.AmountPaise = int64(math.Round(consumed * float64(*b.RatePerUnitPaise)))
	}
	return nil
}

func ReceiptNumber(b *models.Bill) string {
	return fmt.Sprintf(utils.ReceiptNumberFormat, b.Serial)
}
