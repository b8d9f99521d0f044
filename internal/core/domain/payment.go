package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrAmountNotPositive  = errors.New("payment amount must be positive")
	ErrTenderedTooLow     = errors.New("amount tendered must not be less than amount applied")
	ErrPaymentModeMissing = errors.New("payment mode is required")
)

// Payment is one funds-received event against a bill.
type Payment struct {
	PaymentID      int64              `json:"paymentID"`
	BillID         int64              `json:"billID"`
	PaymentModeID  int64              `json:"paymentModeID"`
	Amount         decimal.Decimal    `json:"amount"`         // Amount applied to the bill
	AmountTendered decimal.Decimal    `json:"amountTendered"` // Amount physically handed over
	CorrelationID  string             `json:"correlationID"`
	Attributes     []PaymentAttribute `json:"attributes"`
	AuditFields
	Voidable
}

// Change is the difference between tendered and applied. It is not persisted.
func (p Payment) Change() decimal.Decimal {
	return p.AmountTendered.Sub(p.Amount)
}

// Validate checks the row-level invariants. Amounts are not checked against
// the outstanding balance.
func (p Payment) Validate() error {
	if p.PaymentModeID <= 0 {
		return ErrPaymentModeMissing
	}
	if !p.Amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if p.AmountTendered.LessThan(p.Amount) {
		return ErrTenderedTooLow
	}
	for _, amount := range []decimal.Decimal{p.Amount, p.AmountTendered} {
		if err := checkAmount(amount); err != nil {
			return err
		}
	}
	return nil
}

// PaymentAttribute is mode-specific metadata, e.g. a mobile money reference.
// It is never voided on its own; it follows its parent payment.
type PaymentAttribute struct {
	AttributeID int64  `json:"attributeID"`
	PaymentID   int64  `json:"paymentID"`
	Name        string `json:"name"`
	Value       string `json:"value"`
	AuditFields
	Voidable
}
