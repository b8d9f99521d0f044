package repositories

import (
	"context"

	"github.com/p-karari/hms-sub002/internal/core/domain"
)

// IdentityResolver maps opaque handles to the internal ids the ledger stores.
// Unknown handles yield apperrors.ErrNotFound.
type IdentityResolver interface {
	ResolvePatient(ctx context.Context, handle string) (*domain.PatientRef, error)
	ResolveUser(ctx context.Context, handle string) (*domain.UserRef, error)
}

// CatalogProvider supplies canonical prices and names for billables and payment modes.
// Unknown ids yield apperrors.ErrNotFound.
type CatalogProvider interface {
	FindService(ctx context.Context, serviceID int64) (*domain.CatalogEntry, error)
	FindStockItem(ctx context.Context, itemID int64) (*domain.CatalogEntry, error)
	FindPaymentMode(ctx context.Context, paymentModeID int64) (*domain.PaymentMode, error)
}
