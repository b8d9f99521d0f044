package repositories

import (
	"context"

	"github.com/p-karari/hms-sub002/internal/core/domain"
)

// LineItemReader defines read operations for line items.
type LineItemReader interface {
	FindLineItemByID(ctx context.Context, lineItemID int64) (*domain.LineItem, error)

	// FindLineItemsByBillID returns all line items of a bill in ordinal order, voided included.
	FindLineItemsByBillID(ctx context.Context, billID int64) ([]domain.LineItem, error)
}

// LineItemWriter defines write operations for line items.
type LineItemWriter interface {
	// SaveLineItem inserts a line item and sets its LineItemID.
	SaveLineItem(ctx context.Context, item *domain.LineItem) error

	// UpdateLineItem persists price, quantity and the changed-by stamp.
	UpdateLineItem(ctx context.Context, item domain.LineItem) error

	VoidLineItem(ctx context.Context, lineItemID int64, void domain.VoidInfo) error

	// UpdateLineItemPaymentStatus sets the advisory payment hint on every active item of a bill.
	UpdateLineItemPaymentStatus(ctx context.Context, billID int64, status domain.LineItemPaymentStatus) error
}
