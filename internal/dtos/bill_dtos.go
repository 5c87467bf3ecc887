package dtos

import (
	"github.com/google/uuid"
)

type CreateBillRequest struct {
	UnitID           uuid.UUID `json:"unit_id" validate:"required"`
	BillType         string    `json:"bill_type" validate:"required,oneof=maintenance electricity water gas internet parking other"`
	Month            int       `json:"month" validate:"required,min=1,max=12"`
	Year             int       `json:"year" validate:"required,gte=2020"`
	AmountPaise      int64     `json:"amount_paise" validate:"gte=0"`
	PreviousReading  *float64  `json:"previous_reading,omitempty" validate:"omitempty,gte=0"`
	CurrentReading   *float64  `json:"current_reading,omitempty" validate:"omitempty,gte=0"`
	RatePerUnitPaise *int64    `json:"rate_per_unit_paise,omitempty" validate:"omitempty,gte=0"`
	DueDate          string    `json:"due_date" validate:"required,datetime=2006-01-02"`
	Description      string    `json:"description" validate:"max=2000"`
	LateFeePaise     int64     `json:"late_fee_paise" validate:"gte=0"`
	DiscountPaise    int64     `json:"discount_paise" validate:"gte=0"`
}

// UpdateBillRequest covers corrections and payment recording. Setting
// status to paid stamps the verifying administrator.
type UpdateBillRequest struct {
	AmountPaise      *int64   `json:"amount_paise,omitempty" validate:"omitempty,gte=0"`
	PreviousReading  *float64 `json:"previous_reading,omitempty" validate:"omitempty,gte=0"`
	CurrentReading   *float64 `json:"current_reading,omitempty" validate:"omitempty,gte=0"`
	RatePerUnitPaise *int64   `json:"rate_per_unit_paise,omitempty" validate:"omitempty,gte=0"`
	DueDate          *string  `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status           *string  `json:"status,omitempty" validate:"omitempty,oneof=unpaid paid overdue partial"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	LateFeePaise     *int64   `json:"late_fee_paise,omitempty" validate:"omitempty,gte=0"`
	DiscountPaise    *int64   `json:"discount_paise,omitempty" validate:"omitempty,gte=0"`
	PaymentMode      *string  `json:"payment_mode,omitempty" validate:"omitempty,oneof=upi bank_transfer cash cheque online"`
	TransactionID    *string  `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
	PaymentDate      *string  `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
