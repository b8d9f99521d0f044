package models

import "github.com/shopspring/decimal"

// LineItem is the storage row of a bill line item. Exactly one of ServiceID
// and ItemID is set.
type LineItem struct {
	LineItemID    int64           `db:"bill_line_item_id"`
	BillID        int64           `db:"bill_id"`
	ServiceID     *int64          `db:"service_id"`
	ItemID        *int64          `db:"item_id"`
	Price         decimal.Decimal `db:"price"`
	Quantity      int             `db:"quantity"`
	PriceName     string          `db:"price_name"`
	LineOrder     int             `db:"line_item_order"`
	PaymentStatus string          `db:"payment_status"`
	OrderID       *int64          `db:"order_id"`
	AuditFields
	VoidColumns
}
