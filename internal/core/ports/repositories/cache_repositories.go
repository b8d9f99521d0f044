package repositories

import (
	"context"
	"errors"

	"github.com/p-karari/hms-sub002/internal/core/domain"
)

// ErrListingChanged reports that a listing was invalidated after the caller
// captured its generation, so the caller's snapshot was not cached.
var ErrListingChanged = errors.New("bill listing changed since generation was read")

// BillListingCache caches a patient's active bill listing.
//
// Every invalidation bumps a per-patient generation. Readers capture the
// generation before loading the listing from the store and hand it back to
// SetPatientBills, which only writes while the generation is unchanged.
type BillListingCache interface {
	ListingGeneration(ctx context.Context, patientID int64) (int64, error)
	// GetPatientBills returns the cached listing and whether it was present.
	GetPatientBills(ctx context.Context, patientID int64) ([]domain.Bill, bool, error)
	// SetPatientBills returns ErrListingChanged when generation is stale.
	SetPatientBills(ctx context.Context, patientID int64, generation int64, bills []domain.Bill) error
	InvalidatePatient(ctx context.Context, patientID int64) error
}

// ReceiptNumberGenerator issues receipt numbers that are unique across bills.
type ReceiptNumberGenerator interface {
	NextReceiptNumber() string
}
