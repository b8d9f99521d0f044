package domain

import "github.com/shopspring/decimal"

// BillStatus is the cached settlement state of a bill.
type BillStatus string

const (
	BillPending       BillStatus = "PENDING"
	BillPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillPaid          BillStatus = "PAID"
)

// DeriveStatus computes a bill's status from its non-voided line item total
// and its non-voided payment total. Rules are evaluated in order.
func DeriveStatus(total, paid decimal.Decimal) BillStatus {
	switch {
	case total.IsPositive() && paid.GreaterThanOrEqual(total):
		return BillPaid
	case paid.IsPositive() && paid.LessThan(total):
		return BillPartiallyPaid
	default:
		return BillPending
	}
}

// BillTotals are the two running sums a bill's status depends on.
type BillTotals struct {
	Total decimal.Decimal `json:"total"`
	Paid  decimal.Decimal `json:"paid"`
}

// Status derives the bill status from the totals.
func (t BillTotals) Status() BillStatus {
	return DeriveStatus(t.Total, t.Paid)
}

// Balance is the amount still owed. Overpayment yields a negative balance.
func (t BillTotals) Balance() decimal.Decimal {
	return t.Total.Sub(t.Paid)
}
