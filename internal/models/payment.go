package models

import "github.com/shopspring/decimal"

// Payment is the storage row of a payment.
type Payment struct {
	PaymentID      int64           `db:"bill_payment_id"`
	BillID         int64           `db:"bill_id"`
	PaymentModeID  int64           `db:"payment_mode_id"`
	Amount         decimal.Decimal `db:"amount"`
	AmountTendered decimal.Decimal `db:"amount_tendered"`
	CorrelationID  string          `db:"correlation_id"`
	AuditFields
	VoidColumns
}

// PaymentAttribute is the storage row of a payment attribute.
type PaymentAttribute struct {
	AttributeID int64  `db:"payment_attribute_id"`
	PaymentID   int64  `db:"bill_payment_id"`
	Name        string `db:"attribute_name"`
	Value       string `db:"value_reference"`
	AuditFields
	VoidColumns
}
