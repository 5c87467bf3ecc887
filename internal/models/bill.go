package models

import (
	"time"

	"github.com/google/uuid"
)

type BillType string

const (
	BillMaintenance BillType = "maintenance"
	BillElectricity BillType = "electricity"
	BillWater       BillType = "water"
	BillGas         BillType = "gas"
	BillInternet    BillType = "internet"
	BillParking     BillType = "parking"
	BillOther       BillType = "other"
)

type BillStatus string

const (
	BillUnpaid  BillStatus = "unpaid"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
	BillPartial BillStatus = "partial"
)

type PaymentMode string

const (
	PaymentUPI          PaymentMode = "upi"
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentCash         PaymentMode = "cash"
	PaymentCheque       PaymentMode = "cheque"
	PaymentOnline       PaymentMode = "online"
)

// Bill is a monthly maintenance or utility charge raised against a unit.
// Amounts are in paise.
type Bill struct {
	ID               uuid.UUID    `json:"id"`
	Serial           int64        `json:"serial"`
	UnitID           uuid.UUID    `json:"unit_id"`
	BillType         BillType     `json:"bill_type"`
	Month            int          `json:"month"`
	Year             int          `json:"year"`
	AmountPaise      int64        `json:"amount_paise"`
	PreviousReading  *float64     `json:"previous_reading,omitempty"`
	CurrentReading   *float64     `json:"current_reading,omitempty"`
	UnitsConsumed    *float64     `json:"units_consumed,omitempty"`
	RatePerUnitPaise *int64       `json:"rate_per_unit_paise,omitempty"`
	DueDate          time.Time    `json:"due_date"`
	Status           BillStatus   `json:"status"`
	Description      string       `json:"description"`
	LateFeePaise     int64        `json:"late_fee_paise"`
	DiscountPaise    int64        `json:"discount_paise"`
	PaymentMode      *PaymentMode `json:"payment_mode,omitempty"`
	TransactionID    string       `json:"transaction_id"`
	PaymentDate      *time.Time   `json:"payment_date,omitempty"`
	VerifiedBy       *uuid.UUID   `json:"verified_by,omitempty"`
	VerifiedAt       *time.Time   `json:"verified_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	Versioned
}

func (b *Bill) GetID() string { return b.ID.String() }

// TotalPaise is amount plus late fee minus discount.
func (b *Bill) TotalPaise() int64 {
	return b.AmountPaise + b.LateFeePaise - b.DiscountPaise
}

// IsOverdue is true for an unpaid bill whose due date is before today.
func (b *Bill) IsOverdue(now time.Time) bool {
	if b.Status == BillPaid {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return b.DueDate.Before(today)
}
