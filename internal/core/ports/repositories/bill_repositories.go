package repositories

import (
	"context"

	"github.com/p-karari/hms-sub002/internal/core/domain"
)

// BillReader defines read operations for bill headers.
type BillReader interface {
	// FindBillByID retrieves a bill header, voided or not.
	FindBillByID(ctx context.Context, billID int64) (*domain.Bill, error)

	// FindBillByCorrelationID retrieves a bill header by its external correlation id.
	FindBillByCorrelationID(ctx context.Context, correlationID string) (*domain.Bill, error)

	// ListBillsByPatient lists a patient's bill headers, newest first.
	ListBillsByPatient(ctx context.Context, patientID int64, includeVoided bool) ([]domain.Bill, error)
}

// BillWriter defines write operations for bill headers.
type BillWriter interface {
	// SaveBill inserts a bill and sets its BillID.
	SaveBill(ctx context.Context, bill *domain.Bill) error

	// LockBill reads a bill header and holds a row lock on it until the
	// surrounding transaction ends. Must be called inside WithTx.
	LockBill(ctx context.Context, billID int64) (*domain.Bill, error)

	// UpdateBillSettlement writes status and receipt number if the stored
	// version still equals bill.Version, then bumps the version. A stale
	// version yields apperrors.ErrConflict.
	UpdateBillSettlement(ctx context.Context, bill domain.Bill) error

	// VoidBill marks the bill voided. Children are not touched.
	VoidBill(ctx context.Context, billID int64, void domain.VoidInfo) error
}

// SettlementReader computes the running sums a bill status depends on.
type SettlementReader interface {
	// SumBillTotals sums non-voided line items (price × quantity) and
	// non-voided payments (amount) of a bill.
	SumBillTotals(ctx context.Context, billID int64) (domain.BillTotals, error)
}
