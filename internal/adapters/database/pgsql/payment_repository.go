package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/models"
	"github.com/p-karari/hms-sub002/internal/utils/mapping"
)

const paymentCols = `bill_payment_id, bill_id, payment_mode_id, amount, amount_tendered, correlation_id,
	date_created, creator, date_changed, changed_by,
	voided, voided_by, date_voided, void_reason`

const paymentAttributeCols = `payment_attribute_id, bill_payment_id, attribute_name, value_reference,
	date_created, creator, date_changed, changed_by,
	voided, voided_by, date_voided, void_reason`

// PgxPaymentRepository stores payments and their attributes.
type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) *PgxPaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var m models.Payment
	err := row.Scan(&m.PaymentID, &m.BillID, &m.PaymentModeID, &m.Amount, &m.AmountTendered, &m.CorrelationID,
		&m.CreatedAt, &m.CreatedBy, &m.ChangedAt, &m.ChangedBy,
		&m.Voided, &m.VoidedBy, &m.DateVoided, &m.VoidReason)
	if err != nil {
		return nil, err
	}
	p := mapping.ToDomainPayment(m)
	return &p, nil
}

func scanPaymentAttribute(row pgx.Row) (domain.PaymentAttribute, error) {
	var m models.PaymentAttribute
	err := row.Scan(&m.AttributeID, &m.PaymentID, &m.Name, &m.Value,
		&m.CreatedAt, &m.CreatedBy, &m.ChangedAt, &m.ChangedBy,
		&m.Voided, &m.VoidedBy, &m.DateVoided, &m.VoidReason)
	if err != nil {
		return domain.PaymentAttribute{}, err
	}
	return mapping.ToDomainPaymentAttribute(m), nil
}

// SavePayment inserts the payment row followed by one row per attribute.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	q := r.conn(ctx)
	m := mapping.ToModelPayment(*payment)
	err := q.QueryRow(ctx, `
		INSERT INTO payments (bill_id, payment_mode_id, amount, amount_tendered, correlation_id, date_created, creator)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING bill_payment_id`,
		m.BillID, m.PaymentModeID, m.Amount, m.AmountTendered, m.CorrelationID, m.CreatedAt, m.CreatedBy,
	).Scan(&payment.PaymentID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to insert payment for bill %d", payment.BillID))
	}

	for i := range payment.Attributes {
		attr := &payment.Attributes[i]
		attr.PaymentID = payment.PaymentID
		am := mapping.ToModelPaymentAttribute(*attr)
		err := q.QueryRow(ctx, `
			INSERT INTO payment_attributes (bill_payment_id, attribute_name, value_reference, date_created, creator)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING payment_attribute_id`,
			am.PaymentID, am.Name, am.Value, am.CreatedAt, am.CreatedBy,
		).Scan(&attr.AttributeID)
		if err != nil {
			return mapPgError(err, fmt.Sprintf("failed to insert attribute %q for payment %d", attr.Name, payment.PaymentID))
		}
	}
	return nil
}

// FindPaymentByID retrieves a payment with its attributes.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE bill_payment_id = $1`, paymentID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("payment %d not found", paymentID))
	}
	attrs, err := r.findAttributes(ctx, []int64{paymentID})
	if err != nil {
		return nil, err
	}
	p.Attributes = attrs[paymentID]
	return p, nil
}

// FindPaymentsByBillID retrieves every payment of a bill with attributes, oldest first.
func (r *PgxPaymentRepository) FindPaymentsByBillID(ctx context.Context, billID int64) ([]domain.Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+paymentCols+`
		FROM payments
		WHERE bill_id = $1
		ORDER BY date_created, bill_payment_id`, billID)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to query payments for bill %d", billID))
	}
	defer rows.Close()

	payments := []domain.Payment{}
	ids := []int64{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, mapPgError(err, fmt.Sprintf("failed to scan payment row for bill %d", billID))
		}
		payments = append(payments, *p)
		ids = append(ids, p.PaymentID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating payment rows")
	}
	if len(ids) == 0 {
		return payments, nil
	}

	attrs, err := r.findAttributes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		payments[i].Attributes = attrs[payments[i].PaymentID]
	}
	return payments, nil
}

func (r *PgxPaymentRepository) findAttributes(ctx context.Context, paymentIDs []int64) (map[int64][]domain.PaymentAttribute, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+paymentAttributeCols+`
		FROM payment_attributes
		WHERE bill_payment_id = ANY($1)
		ORDER BY bill_payment_id, attribute_name`, paymentIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query payment attributes")
	}
	defer rows.Close()

	byPayment := make(map[int64][]domain.PaymentAttribute, len(paymentIDs))
	for rows.Next() {
		attr, err := scanPaymentAttribute(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan payment attribute row")
		}
		byPayment[attr.PaymentID] = append(byPayment[attr.PaymentID], attr)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating payment attribute rows")
	}
	return byPayment, nil
}

// VoidPayment marks an active payment voided. Its attributes are left as recorded.
func (r *PgxPaymentRepository) VoidPayment(ctx context.Context, paymentID int64, void domain.VoidInfo) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE payments
		SET voided = TRUE, voided_by = $2, date_voided = $3, void_reason = $4
		WHERE bill_payment_id = $1 AND voided = FALSE`,
		paymentID, void.VoidedBy, void.DateVoided, void.VoidReason)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to void payment %d", paymentID))
	}
	return expectOneRow(tag, func() error {
		return apperrors.NewNotFoundError(fmt.Sprintf("active payment %d not found", paymentID))
	})
}
