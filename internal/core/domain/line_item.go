package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBillableMissing     = errors.New("line item must reference a service or an item")
	ErrNegativePrice       = errors.New("line item price must not be negative")
	ErrQuantityNotPositive = errors.New("line item quantity must be positive")
)

// LineItemPaymentStatus is an advisory per-item hint. The bill status is authoritative.
type LineItemPaymentStatus string

const (
	LineItemPending LineItemPaymentStatus = "PENDING"
	LineItemPaid    LineItemPaymentStatus = "PAID"
)

// LineItem is one priced entry attached to a bill.
type LineItem struct {
	LineItemID    int64                 `json:"lineItemID"`
	BillID        int64                 `json:"billID"`
	Billable      Billable              `json:"-"`
	Price         decimal.Decimal       `json:"price"`
	Quantity      int                   `json:"quantity"`
	PriceName     string                `json:"priceName"` // Display label of the applied price tier
	Order         int                   `json:"order"`     // 1-based position within the bill
	PaymentStatus LineItemPaymentStatus `json:"paymentStatus"`
	OrderID       *int64                `json:"orderID,omitempty"` // Originating clinical order, if any
	AuditFields
	Voidable
}

// LineTotal is price × quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Validate checks the row-level invariants.
func (li LineItem) Validate() error {
	if li.Billable == nil {
		return ErrBillableMissing
	}
	if li.Price.IsNegative() {
		return ErrNegativePrice
	}
	if err := checkAmount(li.Price); err != nil {
		return err
	}
	if li.Quantity <= 0 {
		return ErrQuantityNotPositive
	}
	if li.Quantity > MaxQuantity {
		return ErrQuantityOutOfRange
	}
	return nil
}
