package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nconnect/society-backend/internal/models"
)

type BillFilter struct {
	Status   models.BillStatus
	BillType models.BillType
	UnitID   *uuid.UUID
	Year     *int
	Month    *int
}

type BillRepository interface {
	Create(ctx context.Context, b *models.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	List(ctx context.Context, f BillFilter) ([]*models.Bill, error)

	UpdateIfVersion(ctx context.Context, b *models.Bill, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Bill) error) error
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkOverdue flips unpaid and partial bills due before today to overdue.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

type billRepo struct {
	*BaseVersionedRepo[*models.Bill]
	db DB
}

func NewBillRepository(db DB) BillRepository {
	r := &billRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectBill()+" WHERE id=$1", scanBill)
	return r
}

func (r *billRepo) Create(ctx context.Context, b *models.Bill) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO bills (
			id, unit_id, bill_type, month, year, amount_paise,
			previous_reading, current_reading, units_consumed, rate_per_unit_paise,
			due_date, status, description, late_fee_paise, discount_paise,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15, NOW(), NOW(), 1)
		RETURNING serial, created_at, updated_at, row_version
	`,
		b.ID, b.UnitID, b.BillType, b.Month, b.Year, b.AmountPaise,
		b.PreviousReading, b.CurrentReading, b.UnitsConsumed, b.RatePerUnitPaise,
		b.DueDate, b.Status, b.Description, b.LateFeePaise, b.DiscountPaise,
	).Scan(&b.Serial, &b.CreatedAt, &b.UpdatedAt, &b.RowVersion)
}

func (r *billRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *billRepo) List(ctx context.Context, f BillFilter) ([]*models.Bill, error) {
	var w where
	if f.Status != "" {
		w.add("status=?", f.Status)
	}
	if f.BillType != "" {
		w.add("bill_type=?", f.BillType)
	}
	if f.UnitID != nil {
		w.add("unit_id=?", *f.UnitID)
	}
	if f.Year != nil {
		w.add("year=?", *f.Year)
	}
	if f.Month != nil {
		w.add("month=?", *f.Month)
	}
	rows, err := r.db.Query(ctx, baseSelectBill()+w.sql()+" ORDER BY year DESC, month DESC, created_at DESC", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *billRepo) UpdateIfVersion(ctx context.Context, b *models.Bill, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE bills SET
			bill_type=$1, month=$2, year=$3, amount_paise=$4,
			previous_reading=$5, current_reading=$6, units_consumed=$7, rate_per_unit_paise=$8,
			due_date=$9, status=$10, description=$11, late_fee_paise=$12, discount_paise=$13,
			payment_mode=$14, transaction_id=$15, payment_date=$16, verified_by=$17, verified_at=$18,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$19 AND row_version=$20
	`,
		b.BillType, b.Month, b.Year, b.AmountPaise,
		b.PreviousReading, b.CurrentReading, b.UnitsConsumed, b.RatePerUnitPaise,
		b.DueDate, b.Status, b.Description, b.LateFeePaise, b.DiscountPaise,
		b.PaymentMode, b.TransactionID, b.PaymentDate, b.VerifiedBy, b.VerifiedAt,
		b.ID, expected,
	)
}

func (r *billRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Bill) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *billRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bills WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *billRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bills
		SET status='overdue', updated_at=NOW(), row_version=row_version+1
		WHERE status IN ('unpaid', 'partial') AND due_date < $1::date
	`, today)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func baseSelectBill() string {
	return `
		SELECT id, serial, unit_id, bill_type, month, year, amount_paise,
			previous_reading, current_reading, units_consumed, rate_per_unit_paise,
			due_date, status, description, late_fee_paise, discount_paise,
			payment_mode, transaction_id, payment_date, verified_by, verified_at,
			created_at, updated_at, row_version
		FROM bills`
}

func scanBill(row pgx.Row) (*models.Bill, error) {
	var b models.Bill
	if err := row.Scan(
		&b.ID, &b.Serial, &b.UnitID, &b.BillType, &b.Month, &b.Year, &b.AmountPaise,
		&b.PreviousReading, &b.CurrentReading, &b.UnitsConsumed, &b.RatePerUnitPaise,
		&b.DueDate, &b.Status, &b.Description, &b.LateFeePaise, &b.DiscountPaise,
		&b.PaymentMode, &b.TransactionID, &b.PaymentDate, &b.VerifiedBy, &b.VerifiedAt,
		&b.CreatedAt, &b.UpdatedAt, &b.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
