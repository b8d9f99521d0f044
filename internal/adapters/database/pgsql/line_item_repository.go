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

const lineItemCols = `bill_line_item_id, bill_id, service_id, item_id, price, quantity,
	price_name, line_item_order, payment_status, order_id,
	date_created, creator, date_changed, changed_by,
	voided, voided_by, date_voided, void_reason`

// PgxLineItemRepository stores bill line items.
type PgxLineItemRepository struct {
	BaseRepository
}

func newPgxLineItemRepository(pool *pgxpool.Pool) *PgxLineItemRepository {
	return &PgxLineItemRepository{BaseRepository: BaseRepository{Pool: pool}}
}

func scanLineItem(row pgx.Row) (*domain.LineItem, error) {
	var m models.LineItem
	err := row.Scan(&m.LineItemID, &m.BillID, &m.ServiceID, &m.ItemID, &m.Price, &m.Quantity,
		&m.PriceName, &m.LineOrder, &m.PaymentStatus, &m.OrderID,
		&m.CreatedAt, &m.CreatedBy, &m.ChangedAt, &m.ChangedBy,
		&m.Voided, &m.VoidedBy, &m.DateVoided, &m.VoidReason)
	if err != nil {
		return nil, err
	}
	item, err := mapping.ToDomainLineItem(m)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveLineItem inserts a line item.
func (r *PgxLineItemRepository) SaveLineItem(ctx context.Context, item *domain.LineItem) error {
	m := mapping.ToModelLineItem(*item)
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bill_line_items (bill_id, service_id, item_id, price, quantity,
			price_name, line_item_order, payment_status, order_id, date_created, creator)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING bill_line_item_id`,
		m.BillID, m.ServiceID, m.ItemID, m.Price, m.Quantity,
		m.PriceName, m.LineOrder, m.PaymentStatus, m.OrderID, m.CreatedAt, m.CreatedBy,
	).Scan(&item.LineItemID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to insert line item for bill %d", item.BillID))
	}
	return nil
}

// FindLineItemByID retrieves a line item by its ID.
func (r *PgxLineItemRepository) FindLineItemByID(ctx context.Context, lineItemID int64) (*domain.LineItem, error) {
	item, err := scanLineItem(r.conn(ctx).QueryRow(ctx,
		`SELECT `+lineItemCols+` FROM bill_line_items WHERE bill_line_item_id = $1`, lineItemID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("line item %d not found", lineItemID))
	}
	return item, nil
}

// FindLineItemsByBillID retrieves every line item of a bill in ordinal order.
func (r *PgxLineItemRepository) FindLineItemsByBillID(ctx context.Context, billID int64) ([]domain.LineItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+lineItemCols+`
		FROM bill_line_items
		WHERE bill_id = $1
		ORDER BY line_item_order, bill_line_item_id`, billID)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to query line items for bill %d", billID))
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, mapPgError(err, fmt.Sprintf("failed to scan line item row for bill %d", billID))
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating line item rows")
	}
	return items, nil
}

// UpdateLineItem persists price, quantity and the changed-by stamp of an active line item.
func (r *PgxLineItemRepository) UpdateLineItem(ctx context.Context, item domain.LineItem) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bill_line_items
		SET price = $2, quantity = $3, date_changed = $4, changed_by = $5
		WHERE bill_line_item_id = $1 AND voided = FALSE`,
		item.LineItemID, item.Price, item.Quantity, item.ChangedAt, item.ChangedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update line item %d", item.LineItemID))
	}
	return expectOneRow(tag, func() error {
		return apperrors.NewNotFoundError(fmt.Sprintf("active line item %d not found", item.LineItemID))
	})
}

// VoidLineItem marks an active line item voided.
func (r *PgxLineItemRepository) VoidLineItem(ctx context.Context, lineItemID int64, void domain.VoidInfo) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bill_line_items
		SET voided = TRUE, voided_by = $2, date_voided = $3, void_reason = $4
		WHERE bill_line_item_id = $1 AND voided = FALSE`,
		lineItemID, void.VoidedBy, void.DateVoided, void.VoidReason)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to void line item %d", lineItemID))
	}
	return expectOneRow(tag, func() error {
		return apperrors.NewNotFoundError(fmt.Sprintf("active line item %d not found", lineItemID))
	})
}

// UpdateLineItemPaymentStatus refreshes the payment hint on the active items of a bill.
func (r *PgxLineItemRepository) UpdateLineItemPaymentStatus(ctx context.Context, billID int64, status domain.LineItemPaymentStatus) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE bill_line_items
		SET payment_status = $2
		WHERE bill_id = $1 AND voided = FALSE AND payment_status <> $2`,
		billID, string(status))
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update payment status of bill %d", billID))
	}
	return nil
}
