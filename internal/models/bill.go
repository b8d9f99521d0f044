package models

// Bill is the storage row of a bill header.
type Bill struct {
	BillID        int64   `db:"bill_id"`
	CorrelationID string  `db:"correlation_id"`
	PatientID     int64   `db:"patient_id"`
	ProviderID    *int64  `db:"provider_id"`
	CashPointID   int64   `db:"cash_point_id"`
	Status        string  `db:"status"`
	ReceiptNumber *string `db:"receipt_number"`
	Version       int64   `db:"version"`
	AuditFields
	VoidColumns
}
