package services

import (
	"context"

	"github.com/p-karari/hms-sub002/internal/dto"
)

// PaymentSvcFacade defines the payment processor operations.
type PaymentSvcFacade interface {
	// ApplyPayment records a payment and its attributes, recomputes the bill
	// status and issues a receipt number on first full settlement.
	ApplyPayment(ctx context.Context, billID int64, req dto.ApplyPaymentRequest, actorHandle string) (int64, error)

	// VoidPayment voids a payment and recomputes the owning bill.
	VoidPayment(ctx context.Context, paymentID int64, reason string, actorHandle string) error
}
