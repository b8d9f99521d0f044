package domain

import "github.com/shopspring/decimal"

// Bill is the top-level financial record of one patient encounter.
type Bill struct {
	BillID        int64      `json:"billID"`
	CorrelationID string     `json:"correlationID"` // Globally unique, assigned at creation
	PatientID     int64      `json:"patientID"`
	ProviderID    *int64     `json:"providerID,omitempty"`
	CashPointID   int64      `json:"cashPointID"`
	Status        BillStatus `json:"status"` // Cached; always DeriveStatus of the active children
	ReceiptNumber *string    `json:"receiptNumber,omitempty"`
	Version       int64      `json:"version"` // Optimistic concurrency token for settlement writes
	AuditFields
	Voidable

	// Loaded on demand
	LineItems []LineItem `json:"lineItems,omitempty"`
	Payments  []Payment  `json:"payments,omitempty"`
}

// Totals sums the non-voided line items and payments currently loaded on the bill.
func (b Bill) Totals() BillTotals {
	total := decimal.Zero
	for _, li := range b.LineItems {
		if li.IsVoided() {
			continue
		}
		total = total.Add(li.LineTotal())
	}
	paid := decimal.Zero
	for _, p := range b.Payments {
		if p.IsVoided() {
			continue
		}
		paid = paid.Add(p.Amount)
	}
	return BillTotals{Total: total, Paid: paid}
}

// HasReceipt reports whether a receipt number has been issued.
func (b Bill) HasReceipt() bool {
	return b.ReceiptNumber != nil && *b.ReceiptNumber != ""
}
