package repositories

import (
	"context"

	"github.com/p-karari/hms-sub002/internal/core/domain"
)

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment with its attributes.
	FindPaymentByID(ctx context.Context, paymentID int64) (*domain.Payment, error)

	// FindPaymentsByBillID returns all payments of a bill with their attributes, voided included.
	FindPaymentsByBillID(ctx context.Context, billID int64) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payments.
type PaymentWriter interface {
	// SavePayment inserts the payment and every attribute row, setting the generated ids.
	SavePayment(ctx context.Context, payment *domain.Payment) error

	// VoidPayment marks the payment voided. Attributes stay as they are.
	VoidPayment(ctx context.Context, paymentID int64, void domain.VoidInfo) error
}
