package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/models"
	"github.com/p-karari/hms-sub002/internal/utils/mapping"
)

const billCols = `bill_id, correlation_id, patient_id, provider_id, cash_point_id,
	status, receipt_number, version,
	date_created, creator, date_changed, changed_by,
	voided, voided_by, date_voided, void_reason`

// PgxBillRepository stores bill headers and computes settlement sums.
type PgxBillRepository struct {
	BaseRepository
}

func newPgxBillRepository(pool *pgxpool.Pool) *PgxBillRepository {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var m models.Bill
	err := row.Scan(&m.BillID, &m.CorrelationID, &m.PatientID, &m.ProviderID, &m.CashPointID,
		&m.Status, &m.ReceiptNumber, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.ChangedAt, &m.ChangedBy,
		&m.Voided, &m.VoidedBy, &m.DateVoided, &m.VoidReason)
	if err != nil {
		return nil, err
	}
	bill := mapping.ToDomainBill(m)
	return &bill, nil
}

// SaveBill inserts a new bill header.
func (r *PgxBillRepository) SaveBill(ctx context.Context, bill *domain.Bill) error {
	m := mapping.ToModelBill(*bill)
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bills (correlation_id, patient_id, provider_id, cash_point_id,
			status, receipt_number, version, date_created, creator)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
		RETURNING bill_id`,
		m.CorrelationID, m.PatientID, m.ProviderID, m.CashPointID,
		m.Status, m.ReceiptNumber, m.CreatedAt, m.CreatedBy,
	).Scan(&bill.BillID)
	if err != nil {
		return mapPgError(err, "failed to insert bill")
	}
	bill.Version = 0
	return nil
}

// FindBillByID retrieves a bill header by its ID.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID int64) (*domain.Bill, error) {
	bill, err := scanBill(r.conn(ctx).QueryRow(ctx,
		`SELECT `+billCols+` FROM bills WHERE bill_id = $1`, billID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("bill %d not found", billID))
	}
	return bill, nil
}

// FindBillByCorrelationID retrieves a bill header by its correlation id.
func (r *PgxBillRepository) FindBillByCorrelationID(ctx context.Context, correlationID string) (*domain.Bill, error) {
	bill, err := scanBill(r.conn(ctx).QueryRow(ctx,
		`SELECT `+billCols+` FROM bills WHERE correlation_id = $1`, correlationID))
	if err != nil {
		return nil, mapPgError(err, "bill "+correlationID+" not found")
	}
	return bill, nil
}

// ListBillsByPatient lists a patient's bill headers, newest first.
func (r *PgxBillRepository) ListBillsByPatient(ctx context.Context, patientID int64, includeVoided bool) ([]domain.Bill, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+billCols+`
		FROM bills
		WHERE patient_id = $1 AND ($2 OR voided = FALSE)
		ORDER BY date_created DESC, bill_id DESC`, patientID, includeVoided)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to list bills for patient %d", patientID))
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan bill row")
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating bill rows")
	}
	return bills, nil
}

// LockBill reads the bill header with SELECT ... FOR UPDATE.
func (r *PgxBillRepository) LockBill(ctx context.Context, billID int64) (*domain.Bill, error) {
	if err := requireTx(ctx, "LockBill"); err != nil {
		return nil, err
	}
	bill, err := scanBill(r.conn(ctx).QueryRow(ctx,
		`SELECT `+billCols+` FROM bills WHERE bill_id = $1 FOR UPDATE`, billID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("bill %d not found", billID))
	}
	return bill, nil
}

// UpdateBillSettlement writes status and receipt number guarded by the version column.
// A receipt number already stored is never overwritten.
func (r *PgxBillRepository) UpdateBillSettlement(ctx context.Context, bill domain.Bill) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills
		SET status = $2, receipt_number = COALESCE(receipt_number, $3), version = version + 1
		WHERE bill_id = $1 AND version = $4`,
		bill.BillID, string(bill.Status), bill.ReceiptNumber, bill.Version)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update settlement of bill %d", bill.BillID))
	}
	return expectOneRow(tag, func() error {
		return apperrors.NewConflictError(fmt.Sprintf("bill %d changed concurrently (version %d)", bill.BillID, bill.Version))
	})
}

// VoidBill marks an active bill header voided.
func (r *PgxBillRepository) VoidBill(ctx context.Context, billID int64, void domain.VoidInfo) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills
		SET voided = TRUE, voided_by = $2, date_voided = $3, void_reason = $4
		WHERE bill_id = $1 AND voided = FALSE`,
		billID, void.VoidedBy, void.DateVoided, void.VoidReason)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to void bill %d", billID))
	}
	return expectOneRow(tag, func() error {
		return apperrors.NewNotFoundError(fmt.Sprintf("active bill %d not found", billID))
	})
}

// SumBillTotals sums the non-voided line items and payments of a bill.
func (r *PgxBillRepository) SumBillTotals(ctx context.Context, billID int64) (domain.BillTotals, error) {
	var totals domain.BillTotals
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(price * quantity) FROM bill_line_items WHERE bill_id = $1 AND voided = FALSE), 0),
			COALESCE((SELECT SUM(amount) FROM payments WHERE bill_id = $1 AND voided = FALSE), 0)`,
		billID).Scan(&totals.Total, &totals.Paid)
	if err != nil {
		return domain.BillTotals{}, apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to sum bill %d", billID), err)
	}
	return totals, nil
}
